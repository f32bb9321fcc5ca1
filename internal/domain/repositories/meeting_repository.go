package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meetings
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	List(ctx context.Context, limit, offset int) ([]entities.Meeting, error)
	Update(ctx context.Context, meeting *entities.Meeting) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// TranscriptRepository defines persistence operations for transcripts
type TranscriptRepository interface {
	Save(ctx context.Context, transcript *entities.Transcript) error
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)
	GetByExternalID(ctx context.Context, externalID string) (*entities.Transcript, error)
}
