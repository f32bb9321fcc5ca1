package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// DeliveryJobRepository defines persistence operations for delivery jobs
type DeliveryJobRepository interface {
	Create(ctx context.Context, job *entities.DeliveryJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.DeliveryJob, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.DeliveryJob, error)
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.DeliveryJob, error)
	GetJobsForProcessing(ctx context.Context, limit int) ([]entities.DeliveryJob, error)

	// ClaimJob transitions a job to processing only if it is still claimable.
	// Returns false when another worker got there first.
	ClaimJob(ctx context.Context, jobID uuid.UUID) (bool, error)

	MarkJobAsCompleted(ctx context.Context, jobID uuid.UUID, externalRef *string) error
	MarkJobAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error
	IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error
	ResetZombieJobs(ctx context.Context, olderThanMinutes int) (int64, error)
}
