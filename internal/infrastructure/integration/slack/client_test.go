package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

func TestPostMessage_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["channel"] != "C123" {
			t.Fatalf("unexpected channel %q", payload["channel"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "ts": "1724500000.000100"})
	}))
	defer ts.Close()

	client := NewClient(&config.SlackConfig{APIToken: "test-token", BaseURL: ts.URL})

	ts2, err := client.PostMessage(context.Background(), "C123", "hello")
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if ts2 != "1724500000.000100" {
		t.Fatalf("unexpected ts %q", ts2)
	}
}

func TestPostMessage_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "channel_not_found"})
	}))
	defer ts.Close()

	client := NewClient(&config.SlackConfig{APIToken: "test-token", BaseURL: ts.URL})

	_, err := client.PostMessage(context.Background(), "C123", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPostMessage_RetriesOn5xx(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"ok":false,"error":"server_error"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "ts": "1.2"})
	}))
	defer ts.Close()

	client := NewClient(&config.SlackConfig{APIToken: "test-token", BaseURL: ts.URL})

	if _, err := client.PostMessage(context.Background(), "C123", "hello"); err != nil {
		t.Fatalf("post failed after retry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestPostMessage_MissingToken(t *testing.T) {
	client := NewClient(&config.SlackConfig{})

	if _, err := client.PostMessage(context.Background(), "C123", "hello"); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestFormatMinutes(t *testing.T) {
	doc := entities.MinutesDocument{
		Title:     "Sprint Planning",
		Summary:   "Planned the next sprint.",
		Decisions: []string{"Ship v2 next week"},
		ActionItems: []entities.MinutesActionItem{
			{Action: "Create jira ticket for login bug", Owner: "Dana", DueDate: "2026-09-01"},
		},
	}

	msg := FormatMinutes(doc)

	for _, want := range []string{
		"📌 *Minutes of Meeting: Sprint Planning*",
		"*Summary*\nPlanned the next sprint.",
		"- • Ship v2 next week",
		"*Owner:* Dana",
		"*Due Date:* 2026-09-01",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatMinutesDefaults(t *testing.T) {
	msg := FormatMinutes(entities.MinutesDocument{})
	if !strings.Contains(msg, "Meeting Minutes") {
		t.Fatalf("expected default title, got:\n%s", msg)
	}
	if !strings.Contains(msg, "No summary provided.") {
		t.Fatalf("expected default summary, got:\n%s", msg)
	}
}
