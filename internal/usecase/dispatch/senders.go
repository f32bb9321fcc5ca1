package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/calendar"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/jira"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/slack"
)

// JiraClient creates issues in Jira
type JiraClient interface {
	CreateIssue(ctx context.Context, summary, description string) (*jira.Issue, error)
}

// SlackClient posts messages to Slack
type SlackClient interface {
	PostMessage(ctx context.Context, channelID, text string) (string, error)
}

// EmailSender delivers minutes by email
type EmailSender interface {
	SendMinutes(ctx context.Context, to []string, doc entities.MinutesDocument) error
}

// CalendarInviter sends calendar invitations
type CalendarInviter interface {
	SendInvite(ctx context.Context, inv calendar.Invite) error
}

// deliverJob executes one delivery against its channel's integration.
// Returns the external reference to store on the job, if any.
func (s *dispatchService) deliverJob(ctx context.Context, job *entities.DeliveryJob) (*string, error) {
	switch job.Channel {
	case entities.DeliveryChannelJira:
		return s.deliverJira(ctx, job)
	case entities.DeliveryChannelSlack:
		return s.deliverSlack(ctx, job)
	case entities.DeliveryChannelEmail:
		return s.deliverEmail(ctx, job)
	case entities.DeliveryChannelCalendar:
		return s.deliverCalendar(ctx, job)
	default:
		return nil, fmt.Errorf("unknown delivery channel %s", job.Channel)
	}
}

// deliverJira creates a Jira issue for the job's action item
func (s *dispatchService) deliverJira(ctx context.Context, job *entities.DeliveryJob) (*string, error) {
	if job.ActionItemID == nil {
		return nil, fmt.Errorf("jira delivery job %s has no action item", job.ID)
	}
	item, err := s.actionItems.GetByID(ctx, *job.ActionItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("action item %s not found", *job.ActionItemID)
	}

	owner := item.Owner
	if owner == "" {
		owner = "N/A"
	}
	due := item.DueDateRaw
	if due == "" {
		due = "N/A"
	}

	summary := fmt.Sprintf("Meeting Action: %s", item.Action)
	description := fmt.Sprintf("Action from MOM:\n%s\n\nOwner: %s\nDue Date: %s", item.Action, owner, due)

	issue, err := s.jira.CreateIssue(ctx, summary, description)
	if err != nil {
		return nil, err
	}

	if err := s.actionItems.MarkDispatched(ctx, item.ID, issue.Key, issue.URL); err != nil {
		return nil, err
	}

	return &issue.Key, nil
}

// deliverSlack posts the formatted minutes to the configured channel
func (s *dispatchService) deliverSlack(ctx context.Context, job *entities.DeliveryJob) (*string, error) {
	minutes, err := s.minutes.GetByID(ctx, job.MinutesID)
	if err != nil {
		return nil, err
	}
	if minutes == nil {
		return nil, fmt.Errorf("minutes %s not found", job.MinutesID)
	}

	ts, err := s.slack.PostMessage(ctx, s.cfg.Slack.ChannelID, slack.FormatMinutes(minutes.Document))
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// deliverEmail sends the minutes to the recipients recorded on the job
func (s *dispatchService) deliverEmail(ctx context.Context, job *entities.DeliveryJob) (*string, error) {
	minutes, err := s.minutes.GetByID(ctx, job.MinutesID)
	if err != nil {
		return nil, err
	}
	if minutes == nil {
		return nil, fmt.Errorf("minutes %s not found", job.MinutesID)
	}

	if err := s.email.SendMinutes(ctx, job.Payload.Recipients, minutes.Document); err != nil {
		return nil, err
	}
	return nil, nil
}

// deliverCalendar sends a follow-up invite for the job's action item
func (s *dispatchService) deliverCalendar(ctx context.Context, job *entities.DeliveryJob) (*string, error) {
	inv := calendar.Invite{
		Summary:     job.Payload.Subject,
		Description: job.Payload.Description,
		Attendees:   job.Payload.Recipients,
	}

	if job.Payload.StartTime != "" {
		start, err := time.Parse(time.RFC3339, job.Payload.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid invite start time: %w", err)
		}
		inv.Start = start
		duration := job.Payload.DurationMinutes
		if duration <= 0 {
			duration = 60
		}
		inv.End = start.Add(time.Duration(duration) * time.Minute)
	}

	if err := s.calendar.SendInvite(ctx, inv); err != nil {
		return nil, err
	}
	return nil, nil
}
