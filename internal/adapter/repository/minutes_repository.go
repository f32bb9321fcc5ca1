package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// MinutesRepository handles minutes of meeting data operations
type MinutesRepository struct {
	db *gorm.DB
}

// NewMinutesRepository creates a new minutes repository
func NewMinutesRepository(db *gorm.DB) *MinutesRepository {
	return &MinutesRepository{db: db}
}

// Save creates or updates a minutes record
func (r *MinutesRepository) Save(ctx context.Context, minutes *entities.Minutes) error {
	if minutes == nil {
		return errors.New("minutes cannot be nil")
	}
	return r.db.WithContext(ctx).Save(minutes).Error
}

// GetByID retrieves a minutes record by ID
func (r *MinutesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Minutes, error) {
	var minutes entities.Minutes
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// GetByMeetingID retrieves the minutes for a meeting
func (r *MinutesRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error) {
	var minutes entities.Minutes
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// ActionItemRepository handles action item data operations
type ActionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new action item repository
func NewActionItemRepository(db *gorm.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

// SaveAll persists a batch of action items
func (r *ActionItemRepository) SaveAll(ctx context.Context, items []*entities.ActionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

// GetByID retrieves an action item by ID
func (r *ActionItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByMeetingID retrieves all action items for a meeting
func (r *ActionItemRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	var items []entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListOverdue retrieves open items past their due date that have not been
// reminded in the last 24 hours
func (r *ActionItemRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]entities.ActionItem, error) {
	var items []entities.ActionItem
	if limit == 0 {
		limit = 100
	}
	cutoff := now.Add(-24 * time.Hour)
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", entities.ActionItemStatusDone, now).
		Where("reminder_sent_at IS NULL OR reminder_sent_at < ?", cutoff).
		Order("due_date ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkDispatched records the created Jira issue against an item
func (r *ActionItemRepository) MarkDispatched(ctx context.Context, id uuid.UUID, jiraKey, jiraURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.ActionItemStatusDispatched,
			"jira_key":   jiraKey,
			"jira_url":   jiraURL,
			"updated_at": time.Now(),
		}).Error
}

// MarkReminderSent records that an overdue reminder went out
func (r *ActionItemRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reminder_sent_at": at,
			"updated_at":       at,
		}).Error
}
