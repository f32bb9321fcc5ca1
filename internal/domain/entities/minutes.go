package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MinutesActionItem is a single action item inside the generated minutes.
// The key names are a wire contract with the LLM prompt; keep them stable.
type MinutesActionItem struct {
	Action  string `json:"action"`
	Owner   string `json:"owner"`
	DueDate string `json:"due_date"`
}

// MinutesDocument is the structured Minutes of Meeting produced by the LLM
type MinutesDocument struct {
	Title       string              `json:"title"`
	Summary     string              `json:"summary"`
	Decisions   []string            `json:"decisions"`
	ActionItems []MinutesActionItem `json:"action_items"`
	Attendees   []string            `json:"attendees"`
}

// Scan implements sql.Scanner interface for GORM
func (d *MinutesDocument) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &d)
}

// Value implements driver.Valuer interface for GORM
func (d MinutesDocument) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Minutes is the stored Minutes of Meeting record
type Minutes struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID  uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	Title      string          `json:"title" gorm:"type:varchar(255)"`
	Summary    string          `json:"summary" gorm:"type:text"`
	Document   MinutesDocument `json:"document" gorm:"type:jsonb;serializer:json"`
	ModelUsed  string          `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	IsFallback bool            `json:"is_fallback" gorm:"default:false"` // True when the transcript was too short for a full analysis
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewMinutes creates a new minutes record
func NewMinutes(meetingID uuid.UUID) *Minutes {
	return &Minutes{
		ID:        uuid.New(),
		MeetingID: meetingID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// SetDocument stores the parsed document and lifts the headline fields
func (m *Minutes) SetDocument(doc MinutesDocument, modelUsed string) {
	m.Document = doc
	m.Title = doc.Title
	m.Summary = doc.Summary
	m.ModelUsed = modelUsed
	m.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (Minutes) TableName() string {
	return "minutes"
}
