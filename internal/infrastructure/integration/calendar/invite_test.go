package calendar

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-automation/pkg/config"
)

func testInvite() Invite {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	return Invite{
		Summary:     "Follow-up Meeting",
		Description: "Follow-up discussion from the previous meeting.",
		Attendees:   []string{"alice@example.com", "bob@example.com"},
		Start:       start,
		End:         start.Add(time.Hour),
	}
}

func TestBuildICS(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)
	ics := BuildICS(testInvite(), "organizer@example.com", "uid-123", now)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:REQUEST",
		"UID:uid-123",
		"DTSTAMP:20260824T093000Z",
		"DTSTART:20260825T100000Z",
		"DTEND:20260825T110000Z",
		"SUMMARY:Follow-up Meeting",
		"ORGANIZER;CN=Organizer:mailto:organizer@example.com",
		"ATTENDEE;ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:alice@example.com",
		"ATTENDEE;ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:bob@example.com",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ics missing %q", want)
		}
	}
}

func TestBuildICSEscaping(t *testing.T) {
	inv := testInvite()
	inv.Summary = "Standup; daily, recurring"
	ics := BuildICS(inv, "o@example.com", "uid", time.Now())

	if !strings.Contains(ics, "SUMMARY:Standup\\; daily\\, recurring") {
		t.Fatalf("summary not escaped:\n%s", ics)
	}
}

func TestSendInvite(t *testing.T) {
	cfg := &config.InviteConfig{
		SenderEmail:    "organizer@example.com",
		SenderPassword: "secret",
		SMTPServer:     "smtp.gmail.com",
		SMTPPort:       465,
		Organizer:      "Meeting Invitation",
	}

	var gotTo []string
	var gotMsg []byte

	inviter := NewInviter(cfg)
	inviter.send = func(host string, port int, username, password, from string, to []string, msg []byte) error {
		if host != "smtp.gmail.com" || port != 465 {
			t.Fatalf("unexpected smtp target %s:%d", host, port)
		}
		if from != "organizer@example.com" {
			t.Fatalf("unexpected from %s", from)
		}
		gotTo = to
		gotMsg = msg
		return nil
	}

	if err := inviter.SendInvite(context.Background(), testInvite()); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(gotTo) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(gotTo))
	}

	msg := string(gotMsg)
	for _, want := range []string{
		"Content-Type: multipart/mixed",
		"Content-Type: multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"Content-Type: text/calendar; method=REQUEST",
		"Content-Transfer-Encoding: base64",
		`filename="invite.ics"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendInviteDefaultsDuration(t *testing.T) {
	cfg := &config.InviteConfig{
		SenderEmail:    "organizer@example.com",
		SenderPassword: "secret",
		SMTPServer:     "smtp.example.com",
		SMTPPort:       465,
	}

	var gotMsg []byte
	inviter := NewInviter(cfg)
	inviter.now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
	inviter.send = func(_ string, _ int, _, _, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	inv := Invite{Attendees: []string{"a@example.com"}}
	if err := inviter.SendInvite(context.Background(), inv); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if !strings.Contains(string(gotMsg), "Follow-up Meeting") {
		t.Fatal("expected default summary")
	}
}

func TestSendInviteNotConfigured(t *testing.T) {
	inviter := NewInviter(&config.InviteConfig{})

	if err := inviter.SendInvite(context.Background(), testInvite()); err == nil {
		t.Fatal("expected error for unconfigured integration")
	}
}
