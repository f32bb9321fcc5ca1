package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemKind classifies how an action item should be handled downstream
type ActionItemKind string

const (
	ActionItemKindTicket   ActionItemKind = "ticket"   // Becomes a Jira issue
	ActionItemKindSchedule ActionItemKind = "schedule" // Becomes a calendar invite
	ActionItemKindTask     ActionItemKind = "task"     // Tracked only, no external delivery
)

// ActionItemStatus represents the tracking state of an action item
type ActionItemStatus string

const (
	ActionItemStatusOpen       ActionItemStatus = "open"
	ActionItemStatusDispatched ActionItemStatus = "dispatched"
	ActionItemStatusDone       ActionItemStatus = "done"
)

// ActionItem is a tracked action item extracted from meeting minutes
type ActionItem struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID      uuid.UUID        `json:"meeting_id" gorm:"type:uuid;not null;index"`
	MinutesID      uuid.UUID        `json:"minutes_id" gorm:"type:uuid;not null;index"`
	Action         string           `json:"action" gorm:"type:text;not null"`
	Owner          string           `json:"owner" gorm:"type:varchar(255)"`
	DueDateRaw     string           `json:"due_date_raw,omitempty" gorm:"type:varchar(100)"` // Verbatim due date text from the minutes
	DueDate        *time.Time       `json:"due_date,omitempty" gorm:"type:timestamp;index"`
	Kind           ActionItemKind   `json:"kind" gorm:"type:varchar(20);not null;index"`
	Status         ActionItemStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'open'"`
	JiraKey        *string          `json:"jira_key,omitempty" gorm:"type:varchar(50)"`
	JiraURL        *string          `json:"jira_url,omitempty" gorm:"type:text"`
	ReminderSentAt *time.Time       `json:"reminder_sent_at,omitempty" gorm:"type:timestamp"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewActionItem creates a new action item
func NewActionItem(meetingID, minutesID uuid.UUID, action, owner, dueDateRaw string, kind ActionItemKind) *ActionItem {
	return &ActionItem{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		MinutesID:  minutesID,
		Action:     action,
		Owner:      owner,
		DueDateRaw: dueDateRaw,
		Kind:       kind,
		Status:     ActionItemStatusOpen,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// IsOverdue checks whether the item is open and past its due date
func (a *ActionItem) IsOverdue(now time.Time) bool {
	if a.Status == ActionItemStatusDone || a.DueDate == nil {
		return false
	}
	return a.DueDate.Before(now)
}

// MarkDispatched records a created Jira issue against the item
func (a *ActionItem) MarkDispatched(jiraKey, jiraURL string) {
	a.Status = ActionItemStatusDispatched
	a.JiraKey = &jiraKey
	a.JiraURL = &jiraURL
	a.UpdatedAt = time.Now()
}

// MarkReminderSent records that an overdue reminder went out
func (a *ActionItem) MarkReminderSent(at time.Time) {
	a.ReminderSentAt = &at
	a.UpdatedAt = at
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}
