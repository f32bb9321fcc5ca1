package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automation/pkg/config"
)

// Result is the completed transcript returned by the provider
type Result struct {
	ID         string
	Status     string
	Text       string
	Confidence float64
	WordCount  int
	Language   string
	Raw        map[string]interface{}
}

// Transcriber wraps the AssemblyAI SDK for audio transcription
type Transcriber struct {
	sdk    *aai.Client
	cfg    *config.AssemblyAIConfig
	logger *zap.Logger
}

// NewTranscriber creates a new transcriber
func NewTranscriber(cfg *config.AssemblyAIConfig, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		sdk:    aai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// Upload streams audio to AssemblyAI and returns the upload URL
func (t *Transcriber) Upload(ctx context.Context, r io.Reader) (string, error) {
	if t.cfg.APIKey == "" {
		return "", fmt.Errorf("assemblyai api key not configured")
	}
	uploadURL, err := t.sdk.Upload(ctx, r)
	if err != nil {
		return "", fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}
	return uploadURL, nil
}

// SubmitFromURL starts an async transcription of the given audio URL and
// returns the provider transcript ID. Completion arrives via webhook.
func (t *Transcriber) SubmitFromURL(ctx context.Context, audioURL string) (string, error) {
	if t.cfg.APIKey == "" {
		return "", fmt.Errorf("assemblyai api key not configured")
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if t.cfg.LanguageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(t.cfg.LanguageCode)
	}
	if t.cfg.WebhookBaseURL != "" {
		webhookURL := t.cfg.WebhookBaseURL
		params.WebhookURL = &webhookURL
	}

	if t.logger != nil {
		t.logger.Info("🎙️ Starting transcription",
			zap.String("language", t.cfg.LanguageCode),
			zap.String("webhook_url", t.cfg.WebhookBaseURL),
		)
	}

	// Submit without waiting: completion arrives on the webhook, and the
	// caller must persist the transcript ID before that can happen.
	transcript, err := t.sdk.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("assemblyai submit failed: %w", err)
	}

	if transcript.ID == nil {
		return "", fmt.Errorf("assemblyai response missing transcript id")
	}
	return *transcript.ID, nil
}

// Fetch retrieves the transcript state for the given provider ID
func (t *Transcriber) Fetch(ctx context.Context, transcriptID string) (*Result, error) {
	transcript, err := t.sdk.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("assemblyai get transcript: %w", err)
	}

	res := &Result{
		ID:     transcriptID,
		Status: string(transcript.Status),
	}
	if transcript.Text != nil {
		res.Text = *transcript.Text
	}
	if transcript.Confidence != nil {
		res.Confidence = *transcript.Confidence
	}
	if transcript.LanguageCode != "" {
		res.Language = string(transcript.LanguageCode)
	}
	res.WordCount = len(transcript.Words)

	// Keep the full provider payload alongside the lifted fields
	if raw, err := json.Marshal(transcript); err == nil {
		var payload map[string]interface{}
		if json.Unmarshal(raw, &payload) == nil {
			res.Raw = payload
		}
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return res, fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	return res, nil
}

// IsCompleted reports whether a webhook status string marks a finished job
func IsCompleted(status string) bool {
	return status == string(aai.TranscriptStatusCompleted)
}
