package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// CreateMeetingRequest registers a meeting. Exactly one transcript source may
// be supplied inline; the rest can be attached later.
type CreateMeetingRequest struct {
	Title          string `json:"title" validate:"required,max=255"`
	TranscriptText string `json:"transcript_text,omitempty"`
	TranscriptURL  string `json:"transcript_url,omitempty" validate:"omitempty,url"`
	AudioObjectKey string `json:"audio_object_key,omitempty"`
	ScheduledAt    string `json:"scheduled_at,omitempty"` // RFC 3339
}

// AttachTranscriptRequest attaches raw transcript text to an existing meeting
type AttachTranscriptRequest struct {
	Text string `json:"text" validate:"required"`
}

// DispatchRequest triggers delivery fan-out for a processed meeting
type DispatchRequest struct {
	Channels        []string `json:"channels,omitempty" validate:"dive,oneof=jira slack email calendar"`
	EmailRecipients []string `json:"email_recipients,omitempty" validate:"dive,email"`
	InviteAttendees []string `json:"invite_attendees,omitempty" validate:"dive,email"`
	InviteStart     string   `json:"invite_start,omitempty"` // RFC 3339
	InviteDuration  int      `json:"invite_duration_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
}

// MeetingResponse is the API shape of a meeting
type MeetingResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	LastError   *string    `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FromMeeting converts a meeting entity to its API shape
func FromMeeting(m *entities.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:          m.ID.String(),
		Title:       m.Title,
		Source:      string(m.Source),
		Status:      string(m.Status),
		ScheduledAt: m.ScheduledAt,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MinutesResponse is the API shape of generated minutes
type MinutesResponse struct {
	ID         string                   `json:"id"`
	MeetingID  string                   `json:"meeting_id"`
	Document   entities.MinutesDocument `json:"document"`
	ModelUsed  string                   `json:"model_used,omitempty"`
	IsFallback bool                     `json:"is_fallback"`
	CreatedAt  time.Time                `json:"created_at"`
}

// FromMinutes converts a minutes entity to its API shape
func FromMinutes(m *entities.Minutes) MinutesResponse {
	return MinutesResponse{
		ID:         m.ID.String(),
		MeetingID:  m.MeetingID.String(),
		Document:   m.Document,
		ModelUsed:  m.ModelUsed,
		IsFallback: m.IsFallback,
		CreatedAt:  m.CreatedAt,
	}
}

// ActionItemResponse is the API shape of a tracked action item
type ActionItemResponse struct {
	ID       string     `json:"id"`
	Action   string     `json:"action"`
	Owner    string     `json:"owner,omitempty"`
	DueDate  string     `json:"due_date,omitempty"`
	DueDateP *time.Time `json:"due_date_parsed,omitempty"`
	Kind     string     `json:"kind"`
	Status   string     `json:"status"`
	JiraKey  *string    `json:"jira_key,omitempty"`
	JiraURL  *string    `json:"jira_url,omitempty"`
}

// FromActionItem converts an action item entity to its API shape
func FromActionItem(a *entities.ActionItem) ActionItemResponse {
	return ActionItemResponse{
		ID:       a.ID.String(),
		Action:   a.Action,
		Owner:    a.Owner,
		DueDate:  a.DueDateRaw,
		DueDateP: a.DueDate,
		Kind:     string(a.Kind),
		Status:   string(a.Status),
		JiraKey:  a.JiraKey,
		JiraURL:  a.JiraURL,
	}
}

// DeliveryJobResponse is the API shape of a delivery job
type DeliveryJobResponse struct {
	ID          string  `json:"id"`
	Channel     string  `json:"channel"`
	Status      string  `json:"status"`
	ExternalRef *string `json:"external_ref,omitempty"`
	RetryCount  int     `json:"retry_count"`
	LastError   *string `json:"last_error,omitempty"`
}

// FromDeliveryJob converts a delivery job entity to its API shape
func FromDeliveryJob(j *entities.DeliveryJob) DeliveryJobResponse {
	return DeliveryJobResponse{
		ID:          j.ID.String(),
		Channel:     string(j.Channel),
		Status:      string(j.Status),
		ExternalRef: j.ExternalRef,
		RetryCount:  j.RetryCount,
		LastError:   j.LastError,
	}
}
