package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-automation/pkg/config"
)

func newTestTranscriber(baseURL string) *Transcriber {
	cfg := &config.AssemblyAIConfig{
		APIKey:         "test-key",
		WebhookBaseURL: "https://api.example.com/v1/webhooks/assemblyai",
		LanguageCode:   "en",
	}
	return &Transcriber{
		sdk: aai.NewClientWithOptions(aai.WithBaseURL(baseURL), aai.WithAPIKey(cfg.APIKey)),
		cfg: cfg,
	}
}

func TestSubmitFromURLDoesNotWaitForCompletion(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Method != http.MethodPost {
			t.Fatalf("expected a single submit POST, got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		// Provider answers queued; completion is delivered by webhook later
		w.Write([]byte(`{"id":"tr_123","status":"queued"}`))
	}))
	defer srv.Close()

	tr := newTestTranscriber(srv.URL)

	id, err := tr.SubmitFromURL(context.Background(), "https://audio.example.com/meeting.mp3")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if id != "tr_123" {
		t.Fatalf("unexpected transcript id %q", id)
	}
	if requests != 1 {
		t.Fatalf("submit must not poll for completion, saw %d requests", requests)
	}
}

func TestSubmitFromURLRequiresAPIKey(t *testing.T) {
	tr := &Transcriber{cfg: &config.AssemblyAIConfig{}}
	if _, err := tr.SubmitFromURL(context.Background(), "https://audio.example.com/a.mp3"); err == nil {
		t.Fatal("expected error without api key")
	}
}
