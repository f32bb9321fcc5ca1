package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle state of a meeting record
type MeetingStatus string

const (
	MeetingStatusCreated      MeetingStatus = "created"      // Registered, no transcript yet
	MeetingStatusTranscribing MeetingStatus = "transcribing" // Audio submitted for speech-to-text
	MeetingStatusTranscribed  MeetingStatus = "transcribed"  // Transcript attached, ready for processing
	MeetingStatusProcessing   MeetingStatus = "processing"   // Minutes generation in progress
	MeetingStatusProcessed    MeetingStatus = "processed"    // Minutes and action items available
	MeetingStatusFailed       MeetingStatus = "failed"       // Processing failed
)

// MeetingSource represents where the transcript material comes from
type MeetingSource string

const (
	MeetingSourceText  MeetingSource = "text"  // Raw transcript text supplied directly
	MeetingSourceURL   MeetingSource = "url"   // Transcript fetched from a public URL
	MeetingSourceAudio MeetingSource = "audio" // Audio file, transcribed via speech-to-text
)

// Meeting is the root record the processing pipeline hangs off
type Meeting struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title          string        `json:"title" gorm:"type:varchar(255);not null"`
	Source         MeetingSource `json:"source" gorm:"type:varchar(20);not null"`
	SourceURL      string        `json:"source_url,omitempty" gorm:"type:text"`
	AudioObjectKey string        `json:"audio_object_key,omitempty" gorm:"type:varchar(512)"`
	Status         MeetingStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'created'"`
	ScheduledAt    *time.Time    `json:"scheduled_at,omitempty" gorm:"type:timestamp"`
	LastError      *string       `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewMeeting creates a new meeting record
func NewMeeting(title string, source MeetingSource) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Source:    source,
		Status:    MeetingStatusCreated,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CanAttachTranscript checks if the meeting accepts a transcript
func (m *Meeting) CanAttachTranscript() bool {
	return m.Status == MeetingStatusCreated || m.Status == MeetingStatusTranscribing || m.Status == MeetingStatusFailed
}

// CanProcess checks if minutes generation may start
func (m *Meeting) CanProcess() bool {
	return m.Status == MeetingStatusTranscribed || m.Status == MeetingStatusFailed
}

// MarkTranscribing marks the meeting as waiting on speech-to-text
func (m *Meeting) MarkTranscribing() {
	m.Status = MeetingStatusTranscribing
	m.UpdatedAt = time.Now()
}

// MarkTranscribed marks the meeting as having a transcript attached
func (m *Meeting) MarkTranscribed() {
	m.Status = MeetingStatusTranscribed
	m.UpdatedAt = time.Now()
}

// MarkProcessing marks the meeting as undergoing minutes generation
func (m *Meeting) MarkProcessing() {
	m.Status = MeetingStatusProcessing
	m.UpdatedAt = time.Now()
}

// MarkProcessed marks the meeting as fully processed
func (m *Meeting) MarkProcessed() {
	m.Status = MeetingStatusProcessed
	m.LastError = nil
	m.UpdatedAt = time.Now()
}

// MarkFailed marks the meeting as failed with an error message
func (m *Meeting) MarkFailed(errMsg string) {
	m.Status = MeetingStatusFailed
	m.LastError = &errMsg
	m.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}
