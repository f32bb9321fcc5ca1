package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the status of a delivery job
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"    // Waiting for a worker to claim it
	DeliveryStatusProcessing DeliveryStatus = "processing" // Claimed by a worker
	DeliveryStatusCompleted  DeliveryStatus = "completed"  // Delivered successfully
	DeliveryStatusFailed     DeliveryStatus = "failed"     // Delivery failed
	DeliveryStatusRetrying   DeliveryStatus = "retrying"   // Scheduled for another attempt
	DeliveryStatusCancelled  DeliveryStatus = "cancelled"  // Delivery was cancelled
)

// DeliveryChannel represents the integration a job delivers to
type DeliveryChannel string

const (
	DeliveryChannelJira     DeliveryChannel = "jira"     // Create a Jira issue
	DeliveryChannelSlack    DeliveryChannel = "slack"    // Post the minutes to Slack
	DeliveryChannelEmail    DeliveryChannel = "email"    // Send the minutes by email
	DeliveryChannelCalendar DeliveryChannel = "calendar" // Send a calendar invite
)

// DeliveryPayload stores channel-specific delivery parameters
type DeliveryPayload struct {
	Subject         string                 `json:"subject,omitempty"`
	Recipients      []string               `json:"recipients,omitempty"`
	StartTime       string                 `json:"start_time,omitempty"` // RFC 3339, calendar invites only
	DurationMinutes int                    `json:"duration_minutes,omitempty"`
	Description     string                 `json:"description,omitempty"`
	Extra           map[string]interface{} `json:"extra,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (p *DeliveryPayload) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &p)
}

// Value implements driver.Valuer interface for GORM
func (p DeliveryPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// DeliveryJob represents one delivery of minutes or an action item to an
// external integration. Jobs are claimed atomically by the worker pool.
type DeliveryJob struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID      uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;index"`
	MinutesID      uuid.UUID       `json:"minutes_id" gorm:"type:uuid;not null;index"`
	ActionItemID   *uuid.UUID      `json:"action_item_id,omitempty" gorm:"type:uuid;index"`
	Channel        DeliveryChannel `json:"channel" gorm:"type:varchar(20);not null;index"`
	Status         DeliveryStatus  `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	IdempotencyKey string          `json:"idempotency_key" gorm:"type:varchar(255);not null;uniqueIndex"`
	Payload        DeliveryPayload `json:"payload,omitempty" gorm:"type:jsonb;serializer:json"`
	ExternalRef    *string         `json:"external_ref,omitempty" gorm:"type:varchar(255)"` // Jira issue key, Slack ts, or message ID

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewDeliveryJob creates a new delivery job
func NewDeliveryJob(meetingID, minutesID uuid.UUID, channel DeliveryChannel, idempotencyKey string) *DeliveryJob {
	return &DeliveryJob{
		ID:             uuid.New(),
		MeetingID:      meetingID,
		MinutesID:      minutesID,
		Channel:        channel,
		Status:         DeliveryStatusPending,
		IdempotencyKey: idempotencyKey,
		RetryCount:     0,
		MaxRetries:     3,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// IsRetryable checks if the job can be retried
func (j *DeliveryJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries && j.Status == DeliveryStatusFailed
}

// CanBeClaimed checks if the job is eligible for pickup by a worker
func (j *DeliveryJob) CanBeClaimed() bool {
	return j.Status == DeliveryStatusPending || j.Status == DeliveryStatusRetrying
}

// MarkAsProcessing marks the job as claimed by a worker
func (j *DeliveryJob) MarkAsProcessing() {
	j.Status = DeliveryStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as delivered, recording the external reference
func (j *DeliveryJob) MarkAsCompleted(externalRef *string) {
	j.Status = DeliveryStatusCompleted
	j.ExternalRef = externalRef
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as failed with an error message
func (j *DeliveryJob) MarkAsFailed(errMsg string) {
	j.Status = DeliveryStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// IncrementRetry increments the retry count and schedules another attempt
func (j *DeliveryJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = DeliveryStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// MarkAsCancelled marks the job as cancelled
func (j *DeliveryJob) MarkAsCancelled() {
	j.Status = DeliveryStatusCancelled
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// TableName specifies the table name for GORM
func (DeliveryJob) TableName() string {
	return "delivery_jobs"
}
