package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transcript is the stored transcript model
type Transcript struct {
	ID              uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID       uuid.UUID                                  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Source          MeetingSource                              `json:"source" gorm:"type:varchar(20);not null"`
	Text            string                                     `json:"text" gorm:"type:text"`
	ExternalID      string                                     `json:"external_id,omitempty" gorm:"type:varchar(255);index"` // Speech-to-text provider transcript ID
	Language        string                                     `json:"language,omitempty" gorm:"type:varchar(20)"`
	ConfidenceScore float64                                    `json:"confidence_score,omitempty"`
	WordCount       int                                        `json:"word_count,omitempty"`
	RawData         datatypes.JSONType[map[string]interface{}] `json:"raw_data,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript
func NewTranscript(meetingID uuid.UUID, source MeetingSource) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Source:    source,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
