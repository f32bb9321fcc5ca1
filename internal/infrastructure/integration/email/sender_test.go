package email

import (
	"context"
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

func testDoc() entities.MinutesDocument {
	return entities.MinutesDocument{
		Title:     "Q3 Planning",
		Summary:   "Discussed the Q3 roadmap.",
		Decisions: []string{"Launch beta in August"},
		ActionItems: []entities.MinutesActionItem{
			{Action: "Draft release notes", Owner: "Sam", DueDate: "2026-08-30"},
			{Action: "Review budget", Owner: "Priya"},
		},
	}
}

func TestBuildMinutesHTML(t *testing.T) {
	body := BuildMinutesHTML(testDoc())

	for _, want := range []string{
		"Discussed the Q3 roadmap.",
		"<li>&#x2022; Launch beta in August</li>",
		"<td>Draft release notes</td>",
		"<td>Sam</td>",
		"<td>2026-08-30</td>",
		"<td>TBD</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestBuildMinutesHTMLEscapes(t *testing.T) {
	doc := entities.MinutesDocument{
		Summary:   "<script>alert(1)</script>",
		Decisions: []string{"a < b"},
	}
	body := BuildMinutesHTML(doc)

	if strings.Contains(body, "<script>") {
		t.Fatal("summary should be escaped")
	}
	if !strings.Contains(body, "a &lt; b") {
		t.Fatal("decision should be escaped")
	}
}

func TestSendMinutes(t *testing.T) {
	cfg := &config.EmailConfig{
		Host:       "smtp.example.com",
		Port:       465,
		Username:   "bot@example.com",
		Password:   "secret",
		From:       "minutes@example.com",
		SenderName: "Meeting Support",
	}

	var gotHost, gotFrom string
	var gotTo []string
	var gotMsg []byte

	s := NewSender(cfg)
	s.send = func(host string, port int, username, password, from string, to []string, msg []byte) error {
		gotHost = host
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := s.SendMinutes(context.Background(), []string{"alice@example.com"}, testDoc())
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotHost != "smtp.example.com" {
		t.Fatalf("unexpected host %s", gotHost)
	}
	if gotFrom != "minutes@example.com" {
		t.Fatalf("unexpected from %s", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "alice@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}

	msg := string(gotMsg)
	if !strings.Contains(msg, "Minutes of Meeting: Q3 Planning") {
		t.Error("subject missing from message")
	}
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Error("message should declare HTML content type")
	}
}

func TestSendMinutesNotConfigured(t *testing.T) {
	s := NewSender(&config.EmailConfig{})

	if err := s.SendMinutes(context.Background(), []string{"a@example.com"}, testDoc()); err == nil {
		t.Fatal("expected error for unconfigured integration")
	}
}

func TestSendMinutesNoRecipients(t *testing.T) {
	cfg := &config.EmailConfig{Host: "h", Username: "u", Password: "p"}
	s := NewSender(cfg)

	if err := s.SendMinutes(context.Background(), nil, testDoc()); err == nil {
		t.Fatal("expected error for empty recipients")
	}
}
