package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/internal/domain/repositories"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-automation/pkg/config"
	"github.com/johnquangdev/meeting-automation/pkg/jobcontext"
)

// Request describes a dispatch fan-out for a processed meeting
type Request struct {
	Channels        []entities.DeliveryChannel
	EmailRecipients []string
	InviteAttendees []string
	InviteStart     string // RFC 3339
	InviteDuration  int    // minutes
}

// Service orchestrates delivery of minutes and action items to integrations
type Service interface {
	EnqueueDispatch(ctx context.Context, meetingID uuid.UUID, req Request) ([]entities.DeliveryJob, error)
	ListJobs(ctx context.Context, meetingID uuid.UUID) ([]entities.DeliveryJob, error)
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type dispatchService struct {
	jobs        repositories.DeliveryJobRepository
	meetings    repositories.MeetingRepository
	minutes     repositories.MinutesRepository
	actionItems repositories.ActionItemRepository

	jira     JiraClient
	slack    SlackClient
	email    EmailSender
	calendar CalendarInviter

	store  cache.Store
	cfg    *config.Config
	logger *zap.Logger

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs a new dispatch service
func NewService(
	jobs repositories.DeliveryJobRepository,
	meetings repositories.MeetingRepository,
	minutes repositories.MinutesRepository,
	actionItems repositories.ActionItemRepository,
	jira JiraClient,
	slack SlackClient,
	email EmailSender,
	calendar CalendarInviter,
	store cache.Store,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &dispatchService{
		jobs:           jobs,
		meetings:       meetings,
		minutes:        minutes,
		actionItems:    actionItems,
		jira:           jira,
		slack:          slack,
		email:          email,
		calendar:       calendar,
		store:          store,
		cfg:            cfg,
		logger:         logger,
		workerStopChan: make(chan struct{}),
	}
}

// channelEnabled reports whether the integration behind a channel is configured
func (s *dispatchService) channelEnabled(channel entities.DeliveryChannel) bool {
	switch channel {
	case entities.DeliveryChannelJira:
		return s.cfg.Jira.Enabled()
	case entities.DeliveryChannelSlack:
		return s.cfg.Slack.Enabled()
	case entities.DeliveryChannelEmail:
		return s.cfg.Email.Enabled()
	case entities.DeliveryChannelCalendar:
		return s.cfg.Invite.Enabled()
	default:
		return false
	}
}

// EnqueueDispatch creates delivery jobs for the requested channels. Each job
// carries an idempotency key, so repeating a dispatch request does not send
// anything twice.
func (s *dispatchService) EnqueueDispatch(ctx context.Context, meetingID uuid.UUID, req Request) ([]entities.DeliveryJob, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, fmt.Errorf("meeting %s not found", meetingID)
	}

	minutes, err := s.minutes.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if minutes == nil {
		return nil, fmt.Errorf("meeting %s has no minutes to dispatch", meetingID)
	}

	channels := req.Channels
	if len(channels) == 0 {
		// Default to everything that is configured
		for _, ch := range []entities.DeliveryChannel{
			entities.DeliveryChannelJira,
			entities.DeliveryChannelSlack,
			entities.DeliveryChannelEmail,
			entities.DeliveryChannelCalendar,
		} {
			if s.channelEnabled(ch) {
				channels = append(channels, ch)
			}
		}
	}

	var created []entities.DeliveryJob
	for _, channel := range channels {
		if !s.channelEnabled(channel) {
			return nil, fmt.Errorf("integration for channel %s is not configured", channel)
		}

		switch channel {
		case entities.DeliveryChannelJira:
			jobs, err := s.enqueueJiraJobs(ctx, meetingID, minutes)
			if err != nil {
				return nil, err
			}
			created = append(created, jobs...)

		case entities.DeliveryChannelCalendar:
			jobs, err := s.enqueueCalendarJobs(ctx, meetingID, minutes, req)
			if err != nil {
				return nil, err
			}
			created = append(created, jobs...)

		case entities.DeliveryChannelSlack:
			key := fmt.Sprintf("dispatch:%s:slack", meetingID)
			job, err := s.enqueueJob(ctx, meetingID, minutes.ID, nil, channel, key, entities.DeliveryPayload{})
			if err != nil {
				return nil, err
			}
			if job != nil {
				created = append(created, *job)
			}

		case entities.DeliveryChannelEmail:
			if len(req.EmailRecipients) == 0 {
				return nil, fmt.Errorf("email dispatch requires recipients")
			}
			key := fmt.Sprintf("dispatch:%s:email", meetingID)
			job, err := s.enqueueJob(ctx, meetingID, minutes.ID, nil, channel, key, entities.DeliveryPayload{
				Recipients: req.EmailRecipients,
			})
			if err != nil {
				return nil, err
			}
			if job != nil {
				created = append(created, *job)
			}

		default:
			return nil, fmt.Errorf("unknown delivery channel %s", channel)
		}
	}

	return created, nil
}

// enqueueJiraJobs creates one delivery job per ticket-classified action item
func (s *dispatchService) enqueueJiraJobs(ctx context.Context, meetingID uuid.UUID, minutes *entities.Minutes) ([]entities.DeliveryJob, error) {
	items, err := s.actionItems.ListByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	var created []entities.DeliveryJob
	for i := range items {
		item := items[i]
		if item.Kind != entities.ActionItemKindTicket || item.Status != entities.ActionItemStatusOpen {
			continue
		}
		key := fmt.Sprintf("dispatch:%s:jira:%s", meetingID, item.ID)
		job, err := s.enqueueJob(ctx, meetingID, minutes.ID, &item.ID, entities.DeliveryChannelJira, key, entities.DeliveryPayload{})
		if err != nil {
			return nil, err
		}
		if job != nil {
			created = append(created, *job)
		}
	}
	return created, nil
}

// enqueueCalendarJobs creates one delivery job per schedule-classified action item
func (s *dispatchService) enqueueCalendarJobs(ctx context.Context, meetingID uuid.UUID, minutes *entities.Minutes, req Request) ([]entities.DeliveryJob, error) {
	items, err := s.actionItems.ListByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	attendees := req.InviteAttendees
	if len(attendees) == 0 {
		attendees = req.EmailRecipients
	}
	if len(attendees) == 0 {
		return nil, fmt.Errorf("calendar dispatch requires attendees")
	}

	var created []entities.DeliveryJob
	for i := range items {
		item := items[i]
		if item.Kind != entities.ActionItemKindSchedule {
			continue
		}
		key := fmt.Sprintf("dispatch:%s:calendar:%s", meetingID, item.ID)
		payload := entities.DeliveryPayload{
			Subject:         "Follow-up Meeting",
			Recipients:      attendees,
			StartTime:       req.InviteStart,
			DurationMinutes: req.InviteDuration,
			Description:     item.Action,
		}
		job, err := s.enqueueJob(ctx, meetingID, minutes.ID, &item.ID, entities.DeliveryChannelCalendar, key, payload)
		if err != nil {
			return nil, err
		}
		if job != nil {
			created = append(created, *job)
		}
	}
	return created, nil
}

// enqueueJob creates a single delivery job unless the idempotency key has
// already been used. Returns nil when the job was deduplicated.
func (s *dispatchService) enqueueJob(ctx context.Context, meetingID, minutesID uuid.UUID, actionItemID *uuid.UUID, channel entities.DeliveryChannel, key string, payload entities.DeliveryPayload) (*entities.DeliveryJob, error) {
	// Fast path: the cache remembers recent dispatches
	if s.store != nil {
		if _, found, err := s.store.Get(ctx, key); err == nil && found {
			if s.logger != nil {
				s.logger.Info("⏭️ Dispatch already enqueued, skipping",
					zap.String("idempotency_key", key),
				)
			}
			return nil, nil
		}
	}

	// The unique index on idempotency_key is the durable guard
	if existing, err := s.jobs.GetByIdempotencyKey(ctx, key); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, nil
	}

	job := entities.NewDeliveryJob(meetingID, minutesID, channel, key)
	job.ActionItemID = actionItemID
	job.Payload = payload
	job.MaxRetries = s.cfg.Dispatch.MaxRetries

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	// Mark the key only once the row exists; a failed Create must stay
	// retryable on the next dispatch request
	if s.store != nil {
		if _, err := s.store.SetNX(ctx, key, "1", 24*time.Hour); err != nil && s.logger != nil {
			s.logger.Warn("Failed to cache idempotency key",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
		}
	}
	return job, nil
}

// ListJobs returns the delivery jobs for a meeting
func (s *dispatchService) ListJobs(ctx context.Context, meetingID uuid.UUID) ([]entities.DeliveryJob, error) {
	return s.jobs.ListByMeetingID(ctx, meetingID)
}

// StartWorkerPool starts background workers to process delivery jobs
func (s *dispatchService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting delivery worker pool",
			zap.Int("worker_count", workerCount),
		)
	}

	// Start worker goroutines
	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.deliveryWorker(ctx, i)
	}

	// Start cleanup routine for zombie jobs
	s.workerWg.Add(1)
	go s.zombieJobWorker(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *dispatchService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping delivery worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Delivery worker pool stopped")
	}

	return nil
}

// deliveryWorker polls for claimable jobs and delivers them
func (s *dispatchService) deliveryWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	interval := time.Duration(s.cfg.Dispatch.PollInterval) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Delivery worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Delivery worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			jobs, err := s.jobs.GetJobsForProcessing(parentCtx, 10)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to poll delivery jobs",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}

			for i := range jobs {
				job := jobs[i]

				// Atomically claim the job; only one worker succeeds
				claimed, err := s.jobs.ClaimJob(parentCtx, job.ID)
				if err != nil {
					if s.logger != nil {
						s.logger.Error("❌ Failed to claim job",
							zap.String("job_id", job.ID.String()),
							zap.Error(err),
						)
					}
					continue
				}
				if !claimed {
					continue
				}

				if s.logger != nil {
					s.logger.Info("👷 Worker claimed job",
						zap.Int("worker_id", workerID),
						zap.String("job_id", job.ID.String()),
						zap.String("channel", string(job.Channel)),
					)
				}

				s.runJob(parentCtx, &job, workerID)
			}
		}
	}
}

// runJob delivers one claimed job and records the outcome
func (s *dispatchService) runJob(parentCtx context.Context, job *entities.DeliveryJob, workerID int) {
	jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, string(job.Channel), workerID)
	defer cancel()

	externalRef, err := s.deliverJob(jobCtx, job)
	if err == nil {
		if markErr := s.jobs.MarkJobAsCompleted(parentCtx, job.ID, externalRef); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to mark job completed",
				zap.String("job_id", job.ID.String()),
				zap.Error(markErr),
			)
		}
		if s.logger != nil {
			s.logger.Info("✅ Delivery completed",
				zap.String("job_id", job.ID.String()),
				zap.String("channel", string(job.Channel)),
			)
		}
		return
	}

	if jobcontext.IsRetryableError(err) && job.RetryCount+1 < job.MaxRetries {
		if s.logger != nil {
			s.logger.Warn("🔁 Delivery failed, scheduling retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount+1),
				zap.Error(err),
			)
		}
		if markErr := s.jobs.IncrementRetryCount(parentCtx, job.ID, err.Error()); markErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to schedule retry",
				zap.String("job_id", job.ID.String()),
				zap.Error(markErr),
			)
		}
		return
	}

	if s.logger != nil {
		s.logger.Error("❌ Delivery failed permanently",
			zap.String("job_id", job.ID.String()),
			zap.String("channel", string(job.Channel)),
			zap.Error(err),
		)
	}
	if markErr := s.jobs.MarkJobAsFailed(parentCtx, job.ID, err.Error()); markErr != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark job failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(markErr),
		)
	}
}

// zombieJobWorker requeues jobs stuck in processing after a worker crash
func (s *dispatchService) zombieJobWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			timeout := s.cfg.Dispatch.ZombieTimeout
			if timeout <= 0 {
				timeout = 10
			}
			n, err := s.jobs.ResetZombieJobs(parentCtx, timeout)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Zombie job sweep failed", zap.Error(err))
				}
				continue
			}
			if n > 0 && s.logger != nil {
				s.logger.Warn("🧟 Requeued stuck delivery jobs",
					zap.Int64("count", n),
				)
			}
		}
	}
}
