package mom

import (
	"testing"
	"time"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

func TestClassifyAction(t *testing.T) {
	cases := []struct {
		action string
		want   entities.ActionItemKind
	}{
		{"Create a Jira ticket for the login bug", entities.ActionItemKindTicket},
		{"File a ticket about the outage", entities.ActionItemKindTicket},
		{"Schedule a call with the design team", entities.ActionItemKindSchedule},
		{"Send a calendar invite for the retro", entities.ActionItemKindSchedule},
		{"Set up a meeting with legal", entities.ActionItemKindSchedule},
		{"Update the onboarding docs", entities.ActionItemKindTask},
		{"", entities.ActionItemKindTask},
	}

	for _, tc := range cases {
		if got := ClassifyAction(tc.action); got != tc.want {
			t.Errorf("ClassifyAction(%q) = %s, want %s", tc.action, got, tc.want)
		}
	}
}

func TestClassifyActionTicketWinsOverSchedule(t *testing.T) {
	// Mentions both a ticket and a meeting; ticket takes priority
	got := ClassifyAction("Create a jira ticket and schedule a meeting to review it")
	if got != entities.ActionItemKindTicket {
		t.Fatalf("expected ticket, got %s", got)
	}
}

func TestParseDueDate(t *testing.T) {
	if d := ParseDueDate("2026-09-01"); d == nil || !d.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected result for ISO date: %v", d)
	}
	if d := ParseDueDate("September 1, 2026"); d == nil {
		t.Fatal("long-form date should parse")
	}
	if d := ParseDueDate("next Friday"); d != nil {
		t.Fatalf("free text should not parse, got %v", d)
	}
	if d := ParseDueDate(""); d != nil {
		t.Fatal("empty text should return nil")
	}
}
