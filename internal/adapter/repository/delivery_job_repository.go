package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// DeliveryJobRepository handles delivery job data operations
type DeliveryJobRepository struct {
	db *gorm.DB
}

// NewDeliveryJobRepository creates a new delivery job repository
func NewDeliveryJobRepository(db *gorm.DB) *DeliveryJobRepository {
	return &DeliveryJobRepository{db: db}
}

// Create creates a new delivery job
func (r *DeliveryJobRepository) Create(ctx context.Context, job *entities.DeliveryJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a delivery job by ID
func (r *DeliveryJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*entities.DeliveryJob, error) {
	var job entities.DeliveryJob
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetByIdempotencyKey retrieves a delivery job by its idempotency key
func (r *DeliveryJobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entities.DeliveryJob, error) {
	var job entities.DeliveryJob
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListByMeetingID retrieves all delivery jobs for a meeting
func (r *DeliveryJobRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.DeliveryJob, error) {
	var jobs []entities.DeliveryJob
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJobsForProcessing retrieves jobs that are ready for pickup
func (r *DeliveryJobRepository) GetJobsForProcessing(ctx context.Context, limit int) ([]entities.DeliveryJob, error) {
	var jobs []entities.DeliveryJob
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.DeliveryStatus{entities.DeliveryStatusPending, entities.DeliveryStatusRetrying}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ClaimJob transitions a job to processing only when it is still claimable.
// The conditional update is the concurrency guard between workers: when two
// workers race on the same job, only one sees RowsAffected > 0.
func (r *DeliveryJobRepository) ClaimJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.DeliveryJob{}).
		Where("id = ? AND status IN ?", jobID,
			[]entities.DeliveryStatus{entities.DeliveryStatusPending, entities.DeliveryStatusRetrying}).
		Updates(map[string]interface{}{
			"status":     entities.DeliveryStatusProcessing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkJobAsCompleted marks a job as delivered with an external reference
func (r *DeliveryJobRepository) MarkJobAsCompleted(ctx context.Context, jobID uuid.UUID, externalRef *string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.DeliveryJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       entities.DeliveryStatusCompleted,
			"external_ref": externalRef,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkJobAsFailed marks a job as failed with an error message
func (r *DeliveryJobRepository) MarkJobAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.DeliveryJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":     entities.DeliveryStatusFailed,
			"last_error": errMsg,
			"updated_at": now,
		}).Error
}

// IncrementRetryCount increments the retry count and schedules another attempt
func (r *DeliveryJobRepository) IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.DeliveryJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.DeliveryStatusRetrying,
			"last_error":  errMsg,
			"updated_at":  now,
		}).Error
}

// ResetZombieJobs requeues jobs stuck in processing longer than the timeout.
// A worker crash between claim and completion leaves the job in processing
// with no owner; the sweep puts it back in front of the pool.
func (r *DeliveryJobRepository) ResetZombieJobs(ctx context.Context, olderThanMinutes int) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	result := r.db.WithContext(ctx).
		Model(&entities.DeliveryJob{}).
		Where("status = ? AND started_at < ?", entities.DeliveryStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":     entities.DeliveryStatusRetrying,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
