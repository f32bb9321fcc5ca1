package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// MinutesRepository defines persistence operations for minutes of meeting
type MinutesRepository interface {
	Save(ctx context.Context, minutes *entities.Minutes) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Minutes, error)
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error)
}

// ActionItemRepository defines persistence operations for action items
type ActionItemRepository interface {
	SaveAll(ctx context.Context, items []*entities.ActionItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]entities.ActionItem, error)
	MarkDispatched(ctx context.Context, id uuid.UUID, jiraKey, jiraURL string) error
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
}
