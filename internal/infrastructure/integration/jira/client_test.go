package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/meeting-automation/pkg/config"
)

func newTestConfig(url string) *config.JiraConfig {
	return &config.JiraConfig{
		URL:         url,
		Username:    "bot@example.com",
		APIToken:    "token",
		ProjectKey:  "KAN",
		IssueTypeID: "10001",
	}
}

func TestCreateIssue_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/3/issue" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bot@example.com" || pass != "token" {
			t.Fatal("missing or wrong basic auth")
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		fields := payload["fields"].(map[string]interface{})
		if fields["summary"] != "Meeting Action: fix login" {
			t.Fatalf("unexpected summary %v", fields["summary"])
		}
		project := fields["project"].(map[string]interface{})
		if project["key"] != "KAN" {
			t.Fatalf("unexpected project %v", project["key"])
		}
		desc := fields["description"].(map[string]interface{})
		if desc["type"] != "doc" {
			t.Fatalf("description should be an ADF doc, got %v", desc["type"])
		}
		issuetype := fields["issuetype"].(map[string]interface{})
		if issuetype["id"] != "10001" {
			t.Fatalf("unexpected issue type %v", issuetype["id"])
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "10100", "key": "KAN-42"})
	}))
	defer ts.Close()

	client := NewClient(newTestConfig(ts.URL))

	issue, err := client.CreateIssue(context.Background(), "Meeting Action: fix login", "details")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if issue.Key != "KAN-42" {
		t.Fatalf("unexpected key %s", issue.Key)
	}
	if issue.URL != ts.URL+"/browse/KAN-42" {
		t.Fatalf("unexpected url %s", issue.URL)
	}
}

func TestCreateIssue_ClientErrorNotRetried(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["project is required"]}`))
	}))
	defer ts.Close()

	client := NewClient(newTestConfig(ts.URL))

	if _, err := client.CreateIssue(context.Background(), "summary", "desc"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("4xx should not be retried, got %d attempts", attempts)
	}
}

func TestCreateIssue_RetriesOn5xx(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"key": "KAN-7"})
	}))
	defer ts.Close()

	client := NewClient(newTestConfig(ts.URL))

	issue, err := client.CreateIssue(context.Background(), "summary", "desc")
	if err != nil {
		t.Fatalf("create failed after retries: %v", err)
	}
	if issue.Key != "KAN-7" {
		t.Fatalf("unexpected key %s", issue.Key)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestCreateIssue_MissingCredentials(t *testing.T) {
	client := NewClient(&config.JiraConfig{ProjectKey: "KAN", IssueTypeID: "10001"})

	if _, err := client.CreateIssue(context.Background(), "summary", "desc"); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
