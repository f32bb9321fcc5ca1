package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/calendar"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/jira"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

// In-memory fakes

type fakeMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	f.meetings[m.ID] = m
	return nil
}
func (f *fakeMeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return f.meetings[id], nil
}
func (f *fakeMeetingRepo) List(_ context.Context, _, _ int) ([]entities.Meeting, error) {
	return nil, nil
}
func (f *fakeMeetingRepo) Update(_ context.Context, _ *entities.Meeting) error { return nil }
func (f *fakeMeetingRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ entities.MeetingStatus) error {
	return nil
}
func (f *fakeMeetingRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

type fakeMinutesRepo struct {
	byMeeting map[uuid.UUID]*entities.Minutes
}

func (f *fakeMinutesRepo) Save(_ context.Context, m *entities.Minutes) error {
	f.byMeeting[m.MeetingID] = m
	return nil
}
func (f *fakeMinutesRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Minutes, error) {
	for _, m := range f.byMeeting {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (f *fakeMinutesRepo) GetByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Minutes, error) {
	return f.byMeeting[meetingID], nil
}

type fakeActionItemRepo struct {
	items map[uuid.UUID]*entities.ActionItem
}

func (f *fakeActionItemRepo) SaveAll(_ context.Context, items []*entities.ActionItem) error {
	for _, it := range items {
		f.items[it.ID] = it
	}
	return nil
}
func (f *fakeActionItemRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	return f.items[id], nil
}
func (f *fakeActionItemRepo) ListByMeetingID(_ context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	var out []entities.ActionItem
	for _, it := range f.items {
		if it.MeetingID == meetingID {
			out = append(out, *it)
		}
	}
	return out, nil
}
func (f *fakeActionItemRepo) ListOverdue(_ context.Context, now time.Time, _ int) ([]entities.ActionItem, error) {
	var out []entities.ActionItem
	for _, it := range f.items {
		if it.IsOverdue(now) && it.ReminderSentAt == nil {
			out = append(out, *it)
		}
	}
	return out, nil
}
func (f *fakeActionItemRepo) MarkDispatched(_ context.Context, id uuid.UUID, jiraKey, jiraURL string) error {
	if it, ok := f.items[id]; ok {
		it.MarkDispatched(jiraKey, jiraURL)
	}
	return nil
}
func (f *fakeActionItemRepo) MarkReminderSent(_ context.Context, id uuid.UUID, at time.Time) error {
	if it, ok := f.items[id]; ok {
		it.MarkReminderSent(at)
	}
	return nil
}

type fakeJobRepo struct {
	jobs      map[uuid.UUID]*entities.DeliveryJob
	byKey     map[string]*entities.DeliveryJob
	createErr error // consumed by the next Create call
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:  make(map[uuid.UUID]*entities.DeliveryJob),
		byKey: make(map[string]*entities.DeliveryJob),
	}
}

func (f *fakeJobRepo) Create(_ context.Context, j *entities.DeliveryJob) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	if _, exists := f.byKey[j.IdempotencyKey]; exists {
		return fmt.Errorf("duplicate idempotency key")
	}
	f.jobs[j.ID] = j
	f.byKey[j.IdempotencyKey] = j
	return nil
}
func (f *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.DeliveryJob, error) {
	return f.jobs[id], nil
}
func (f *fakeJobRepo) GetByIdempotencyKey(_ context.Context, key string) (*entities.DeliveryJob, error) {
	return f.byKey[key], nil
}
func (f *fakeJobRepo) ListByMeetingID(_ context.Context, meetingID uuid.UUID) ([]entities.DeliveryJob, error) {
	var out []entities.DeliveryJob
	for _, j := range f.jobs {
		if j.MeetingID == meetingID {
			out = append(out, *j)
		}
	}
	return out, nil
}
func (f *fakeJobRepo) GetJobsForProcessing(_ context.Context, _ int) ([]entities.DeliveryJob, error) {
	var out []entities.DeliveryJob
	for _, j := range f.jobs {
		if j.CanBeClaimed() {
			out = append(out, *j)
		}
	}
	return out, nil
}
func (f *fakeJobRepo) ClaimJob(_ context.Context, id uuid.UUID) (bool, error) {
	j, ok := f.jobs[id]
	if !ok || !j.CanBeClaimed() {
		return false, nil
	}
	j.MarkAsProcessing()
	return true, nil
}
func (f *fakeJobRepo) MarkJobAsCompleted(_ context.Context, id uuid.UUID, ref *string) error {
	f.jobs[id].MarkAsCompleted(ref)
	return nil
}
func (f *fakeJobRepo) MarkJobAsFailed(_ context.Context, id uuid.UUID, msg string) error {
	f.jobs[id].MarkAsFailed(msg)
	return nil
}
func (f *fakeJobRepo) IncrementRetryCount(_ context.Context, id uuid.UUID, msg string) error {
	f.jobs[id].IncrementRetry(msg)
	return nil
}
func (f *fakeJobRepo) ResetZombieJobs(_ context.Context, _ int) (int64, error) { return 0, nil }

// Fake senders

type fakeJira struct {
	calls int
	err   error
}

func (f *fakeJira) CreateIssue(_ context.Context, _, _ string) (*jira.Issue, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &jira.Issue{Key: "KAN-1", URL: "https://jira.example.com/browse/KAN-1"}, nil
}

type fakeSlack struct {
	messages []string
	err      error
}

func (f *fakeSlack) PostMessage(_ context.Context, _, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.messages = append(f.messages, text)
	return "1.1", nil
}

type fakeEmail struct {
	sent [][]string
}

func (f *fakeEmail) SendMinutes(_ context.Context, to []string, _ entities.MinutesDocument) error {
	f.sent = append(f.sent, to)
	return nil
}

type fakeCalendar struct {
	invites []calendar.Invite
}

func (f *fakeCalendar) SendInvite(_ context.Context, inv calendar.Invite) error {
	f.invites = append(f.invites, inv)
	return nil
}

type fixture struct {
	svc         *dispatchService
	meetings    *fakeMeetingRepo
	minutes     *fakeMinutesRepo
	actionItems *fakeActionItemRepo
	jobs        *fakeJobRepo
	jira        *fakeJira
	slack       *fakeSlack
	email       *fakeEmail
	calendar    *fakeCalendar
	meetingID   uuid.UUID
	minutesID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Jira:     config.JiraConfig{URL: "https://jira.example.com", Username: "u", APIToken: "t", ProjectKey: "KAN", IssueTypeID: "10001"},
		Slack:    config.SlackConfig{APIToken: "tok", ChannelID: "C1"},
		Email:    config.EmailConfig{Host: "smtp.example.com", Username: "u", Password: "p"},
		Invite:   config.InviteConfig{SenderEmail: "o@example.com", SenderPassword: "p"},
		Dispatch: config.DispatchConfig{MaxRetries: 3, PollInterval: 1, ZombieTimeout: 10},
	}

	meeting := entities.NewMeeting("Weekly Sync", entities.MeetingSourceText)
	meeting.Status = entities.MeetingStatusProcessed

	minutes := entities.NewMinutes(meeting.ID)
	minutes.SetDocument(entities.MinutesDocument{
		Title:   "Weekly Sync",
		Summary: "Recap.",
	}, "test-model")

	f := &fixture{
		meetings:    &fakeMeetingRepo{meetings: map[uuid.UUID]*entities.Meeting{meeting.ID: meeting}},
		minutes:     &fakeMinutesRepo{byMeeting: map[uuid.UUID]*entities.Minutes{meeting.ID: minutes}},
		actionItems: &fakeActionItemRepo{items: make(map[uuid.UUID]*entities.ActionItem)},
		jobs:        newFakeJobRepo(),
		jira:        &fakeJira{},
		slack:       &fakeSlack{},
		email:       &fakeEmail{},
		calendar:    &fakeCalendar{},
		meetingID:   meeting.ID,
		minutesID:   minutes.ID,
	}

	f.svc = NewService(
		f.jobs, f.meetings, f.minutes, f.actionItems,
		f.jira, f.slack, f.email, f.calendar,
		cache.NewMemoryStore(), cfg, nil,
	).(*dispatchService)

	return f
}

func (f *fixture) addActionItem(action string, kind entities.ActionItemKind) *entities.ActionItem {
	item := entities.NewActionItem(f.meetingID, f.minutesID, action, "Sam", "2026-09-01", kind)
	f.actionItems.items[item.ID] = item
	return item
}

func TestEnqueueDispatchSlackIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := Request{Channels: []entities.DeliveryChannel{entities.DeliveryChannelSlack}}

	jobs, err := f.svc.EnqueueDispatch(ctx, f.meetingID, req)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	// Second dispatch must not create another job
	jobs, err = f.svc.EnqueueDispatch(ctx, f.meetingID, req)
	if err != nil {
		t.Fatalf("second enqueue failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs on repeat dispatch, got %d", len(jobs))
	}
	if len(f.jobs.jobs) != 1 {
		t.Fatalf("expected 1 stored job, got %d", len(f.jobs.jobs))
	}
}

func TestEnqueueDispatchRetryableAfterCreateFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := Request{Channels: []entities.DeliveryChannel{entities.DeliveryChannelSlack}}

	f.jobs.createErr = errors.New("connection reset")
	if _, err := f.svc.EnqueueDispatch(ctx, f.meetingID, req); err == nil {
		t.Fatal("expected error when the job row cannot be created")
	}

	// A failed create must not burn the idempotency key
	jobs, err := f.svc.EnqueueDispatch(ctx, f.meetingID, req)
	if err != nil {
		t.Fatalf("retry enqueue failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected retry to create 1 job, got %d", len(jobs))
	}
}

func TestEnqueueDispatchJiraPerTicketItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addActionItem("Create jira ticket for login bug", entities.ActionItemKindTicket)
	f.addActionItem("Update docs", entities.ActionItemKindTask)

	jobs, err := f.svc.EnqueueDispatch(ctx, f.meetingID, Request{
		Channels: []entities.DeliveryChannel{entities.DeliveryChannelJira},
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 jira job, got %d", len(jobs))
	}
	if jobs[0].ActionItemID == nil {
		t.Fatal("jira job should reference its action item")
	}
}

func TestEnqueueDispatchEmailRequiresRecipients(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.EnqueueDispatch(context.Background(), f.meetingID, Request{
		Channels: []entities.DeliveryChannel{entities.DeliveryChannelEmail},
	})
	if err == nil {
		t.Fatal("expected error for missing recipients")
	}
}

func TestEnqueueDispatchNoMinutes(t *testing.T) {
	f := newFixture(t)

	other := entities.NewMeeting("No minutes", entities.MeetingSourceText)
	f.meetings.meetings[other.ID] = other

	_, err := f.svc.EnqueueDispatch(context.Background(), other.ID, Request{})
	if err == nil {
		t.Fatal("expected error for meeting without minutes")
	}
}

func TestDeliverJiraJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.addActionItem("Create jira ticket for login bug", entities.ActionItemKindTicket)

	job := entities.NewDeliveryJob(f.meetingID, f.minutesID, entities.DeliveryChannelJira, "k1")
	job.ActionItemID = &item.ID

	ref, err := f.svc.deliverJob(ctx, job)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if ref == nil || *ref != "KAN-1" {
		t.Fatalf("unexpected external ref %v", ref)
	}
	if item.Status != entities.ActionItemStatusDispatched {
		t.Fatalf("item should be dispatched, got %s", item.Status)
	}
	if item.JiraKey == nil || *item.JiraKey != "KAN-1" {
		t.Fatal("jira key should be recorded on the item")
	}
}

func TestDeliverSlackJob(t *testing.T) {
	f := newFixture(t)

	job := entities.NewDeliveryJob(f.meetingID, f.minutesID, entities.DeliveryChannelSlack, "k2")

	ref, err := f.svc.deliverJob(context.Background(), job)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if ref == nil || *ref != "1.1" {
		t.Fatalf("unexpected ref %v", ref)
	}
	if len(f.slack.messages) != 1 {
		t.Fatalf("expected 1 slack message, got %d", len(f.slack.messages))
	}
}

func TestDeliverEmailJob(t *testing.T) {
	f := newFixture(t)

	job := entities.NewDeliveryJob(f.meetingID, f.minutesID, entities.DeliveryChannelEmail, "k3")
	job.Payload.Recipients = []string{"a@example.com"}

	if _, err := f.svc.deliverJob(context.Background(), job); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if len(f.email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(f.email.sent))
	}
}

func TestDeliverCalendarJob(t *testing.T) {
	f := newFixture(t)

	job := entities.NewDeliveryJob(f.meetingID, f.minutesID, entities.DeliveryChannelCalendar, "k4")
	job.Payload = entities.DeliveryPayload{
		Subject:         "Follow-up Meeting",
		Recipients:      []string{"a@example.com"},
		StartTime:       "2026-08-25T10:00:00Z",
		DurationMinutes: 30,
		Description:     "Discuss rollout",
	}

	if _, err := f.svc.deliverJob(context.Background(), job); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if len(f.calendar.invites) != 1 {
		t.Fatalf("expected 1 invite, got %d", len(f.calendar.invites))
	}
	inv := f.calendar.invites[0]
	if inv.End.Sub(inv.Start) != 30*time.Minute {
		t.Fatalf("unexpected invite duration %v", inv.End.Sub(inv.Start))
	}
}

func TestRunJobRetriesTransientFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.addActionItem("Create jira ticket", entities.ActionItemKindTicket)
	f.jira.err = errors.New("jira returned status 503")

	job := entities.NewDeliveryJob(f.meetingID, f.minutesID, entities.DeliveryChannelJira, "k5")
	job.ActionItemID = &item.ID
	f.jobs.jobs[job.ID] = job

	job.MarkAsProcessing()
	f.svc.runJob(ctx, job, 0)

	stored := f.jobs.jobs[job.ID]
	if stored.Status != entities.DeliveryStatusRetrying {
		t.Fatalf("transient failure should schedule retry, got %s", stored.Status)
	}
	if stored.RetryCount != 1 {
		t.Fatalf("unexpected retry count %d", stored.RetryCount)
	}
}

func TestRunJobPermanentFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.addActionItem("Create jira ticket", entities.ActionItemKindTicket)
	f.jira.err = errors.New("jira returned status 401")

	job := entities.NewDeliveryJob(f.meetingID, f.minutesID, entities.DeliveryChannelJira, "k6")
	job.ActionItemID = &item.ID
	f.jobs.jobs[job.ID] = job

	job.MarkAsProcessing()
	f.svc.runJob(ctx, job, 0)

	stored := f.jobs.jobs[job.ID]
	if stored.Status != entities.DeliveryStatusFailed {
		t.Fatalf("auth failure should fail permanently, got %s", stored.Status)
	}
}

func TestReminderSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.addActionItem("Review budget", entities.ActionItemKindTask)
	past := time.Now().Add(-48 * time.Hour)
	item.DueDate = &past

	r := NewReminder(f.actionItems, f.slack, f.svc.cfg, nil)
	if err := r.Sweep(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(f.slack.messages) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(f.slack.messages))
	}
	if item.ReminderSentAt == nil {
		t.Fatal("reminder timestamp should be recorded")
	}

	// Second sweep should not re-notify
	if err := r.Sweep(ctx); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if len(f.slack.messages) != 1 {
		t.Fatalf("item should not be re-notified, got %d messages", len(f.slack.messages))
	}
}
