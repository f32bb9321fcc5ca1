package calendar

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/mailer"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

const icalTimeLayout = "20060102T150405Z"

// Invite describes a calendar event to send as an email invitation
type Invite struct {
	Summary     string
	Description string
	Attendees   []string
	Start       time.Time
	End         time.Time
}

// Inviter sends iCalendar invitations over SMTP
type Inviter struct {
	cfg  *config.InviteConfig
	send func(host string, port int, username, password, from string, to []string, msg []byte) error
	now  func() time.Time
}

// NewInviter creates a new calendar inviter
func NewInviter(cfg *config.InviteConfig) *Inviter {
	return &Inviter{
		cfg:  cfg,
		send: mailer.SendSSL,
		now:  time.Now,
	}
}

// BuildICS renders the invite as an iCalendar REQUEST
func BuildICS(inv Invite, organizerEmail string, uid string, now time.Time) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//MeetingAutomation//NONSGML Meeting Invite//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:REQUEST\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + uid + "\r\n")
	b.WriteString("DTSTAMP:" + now.UTC().Format(icalTimeLayout) + "\r\n")
	b.WriteString("DTSTART:" + inv.Start.UTC().Format(icalTimeLayout) + "\r\n")
	b.WriteString("DTEND:" + inv.End.UTC().Format(icalTimeLayout) + "\r\n")
	b.WriteString("SUMMARY:" + escapeICSText(inv.Summary) + "\r\n")
	b.WriteString("DESCRIPTION:" + escapeICSText(inv.Description) + "\r\n")
	b.WriteString("ORGANIZER;CN=Organizer:mailto:" + organizerEmail + "\r\n")
	for _, attendee := range inv.Attendees {
		b.WriteString("ATTENDEE;ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:" + attendee + "\r\n")
	}
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")

	return b.String()
}

func escapeICSText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}

// buildInviteHTML renders the HTML body shown alongside the calendar attachment
func buildInviteHTML(inv Invite) string {
	return fmt.Sprintf(`
<html>
    <head>
        <style>
            body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
            .container { max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; }
            h2, h3 { color: #0056b3; }
            p { margin-bottom: 10px; }
        </style>
    </head>
    <body>
        <div class="container">
            <h2>Meeting Invitation: %s</h2>
            <h3>Event Details</h3>
            <p><strong>Date:</strong> %s</p>
            <p><strong>Time:</strong> %s - %s</p>
            <p><strong>Description:</strong><br>%s</p>
            <p>This event can be added to your calendar automatically by accepting the invitation. Thank you!</p>
        </div>
    </body>
</html>`,
		inv.Summary,
		inv.Start.UTC().Format("January 02, 2006"),
		inv.Start.UTC().Format("15:04"),
		inv.End.UTC().Format("15:04"),
		inv.Description,
	)
}

// buildInviteMessage assembles the multipart/mixed email: a plain and HTML
// body plus the base64-encoded text/calendar attachment
func buildInviteMessage(senderName, from string, inv Invite, ics string) []byte {
	const mixedBoundary = "mixed-boundary-001"
	const altBoundary = "alt-boundary-001"

	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", senderName), from))
	b.WriteString("To: " + strings.Join(inv.Attendees, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", inv.Summary) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/mixed; boundary=\"" + mixedBoundary + "\"\r\n")
	b.WriteString("\r\n")

	// Body container with plain text and HTML alternatives
	b.WriteString("--" + mixedBoundary + "\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"" + altBoundary + "\"\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + altBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(inv.Description + "\r\n")

	b.WriteString("--" + altBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(buildInviteHTML(inv) + "\r\n")

	b.WriteString("--" + altBoundary + "--\r\n")

	// Calendar attachment
	b.WriteString("--" + mixedBoundary + "\r\n")
	b.WriteString("Content-Type: text/calendar; method=REQUEST; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("Content-Disposition: attachment; filename=\"invite.ics\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(ics)) + "\r\n")

	b.WriteString("--" + mixedBoundary + "--\r\n")

	return []byte(b.String())
}

// SendInvite builds and emails the calendar invitation to all attendees
func (i *Inviter) SendInvite(ctx context.Context, inv Invite) error {
	if !i.cfg.Enabled() {
		return fmt.Errorf("invite integration not configured")
	}
	if len(inv.Attendees) == 0 {
		return fmt.Errorf("at least one attendee is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if inv.Summary == "" {
		inv.Summary = "Follow-up Meeting"
	}
	if inv.Start.IsZero() {
		inv.Start = i.now().UTC()
	}
	if inv.End.IsZero() || !inv.End.After(inv.Start) {
		inv.End = inv.Start.Add(time.Hour)
	}

	ics := BuildICS(inv, i.cfg.SenderEmail, uuid.NewString(), i.now())
	msg := buildInviteMessage(i.cfg.Organizer, i.cfg.SenderEmail, inv, ics)

	if err := i.send(i.cfg.SMTPServer, i.cfg.SMTPPort, i.cfg.SenderEmail, i.cfg.SenderPassword, i.cfg.SenderEmail, inv.Attendees, msg); err != nil {
		return fmt.Errorf("send calendar invite: %w", err)
	}
	return nil
}
