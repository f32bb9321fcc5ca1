package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automation/internal/domain/repositories"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

// Reminder runs a scheduled sweep over open action items and posts overdue
// notices to Slack
type Reminder struct {
	actionItems repositories.ActionItemRepository
	slack       SlackClient
	cfg         *config.Config
	logger      *zap.Logger
	cron        *cron.Cron
}

// NewReminder creates a new reminder sweeper
func NewReminder(actionItems repositories.ActionItemRepository, slack SlackClient, cfg *config.Config, logger *zap.Logger) *Reminder {
	return &Reminder{
		actionItems: actionItems,
		slack:       slack,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start schedules the sweep using the configured cron spec
func (r *Reminder) Start(ctx context.Context) error {
	spec := r.cfg.Dispatch.ReminderSpec
	if spec == "" {
		spec = "0 9 * * *"
	}

	r.cron = cron.New()
	_, err := r.cron.AddFunc(spec, func() {
		if err := r.Sweep(ctx); err != nil && r.logger != nil {
			r.logger.Error("❌ Reminder sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", spec, err)
	}

	r.cron.Start()

	if r.logger != nil {
		r.logger.Info("⏰ Reminder sweep scheduled",
			zap.String("spec", spec),
		)
	}
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (r *Reminder) Stop() {
	if r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
}

// Sweep posts a Slack notice for every overdue open action item that has not
// been reminded in the last day
func (r *Reminder) Sweep(ctx context.Context) error {
	if !r.cfg.Slack.Enabled() {
		return nil
	}

	now := time.Now()
	items, err := r.actionItems.ListOverdue(ctx, now, 100)
	if err != nil {
		return err
	}

	for i := range items {
		item := items[i]

		owner := item.Owner
		if owner == "" {
			owner = "N/A"
		}
		text := fmt.Sprintf(
			"⏰ *Overdue action item*\n- *Action:* %s\n  - *Owner:* %s\n  - *Due Date:* %s",
			item.Action, owner, item.DueDate.Format("2006-01-02"),
		)

		if _, err := r.slack.PostMessage(ctx, r.cfg.Slack.ChannelID, text); err != nil {
			if r.logger != nil {
				r.logger.Error("❌ Failed to post overdue reminder",
					zap.String("action_item_id", item.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}

		if err := r.actionItems.MarkReminderSent(ctx, item.ID, now); err != nil && r.logger != nil {
			r.logger.Error("❌ Failed to record reminder",
				zap.String("action_item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}

	if len(items) > 0 && r.logger != nil {
		r.logger.Info("⏰ Overdue reminders sent",
			zap.Int("count", len(items)),
		)
	}
	return nil
}
