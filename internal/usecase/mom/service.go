package mom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-automation/errors"
	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/internal/domain/repositories"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/transcription"
)

// LLM generates summaries and structured minutes from transcripts
type LLM interface {
	GenerateMinutes(ctx context.Context, transcript string) (string, error)
}

// AudioTranscriber submits audio for async transcription and fetches results
type AudioTranscriber interface {
	SubmitFromURL(ctx context.Context, audioURL string) (string, error)
	Fetch(ctx context.Context, transcriptID string) (*transcription.Result, error)
}

// ObjectStore resolves stored audio objects to downloadable URLs and keeps
// transcript and minutes artifacts
type ObjectStore interface {
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	UploadText(ctx context.Context, objectName string, content string) error
}

// Service orchestrates transcript ingestion and minutes generation
type Service struct {
	meetings    repositories.MeetingRepository
	transcripts repositories.TranscriptRepository
	minutes     repositories.MinutesRepository
	actionItems repositories.ActionItemRepository

	llm         LLM
	transcriber AudioTranscriber
	storage     ObjectStore
	parser      *Parser
	httpClient  *http.Client
	modelName   string
	logger      *zap.Logger
}

// NewService creates a new minutes service
func NewService(
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	minutes repositories.MinutesRepository,
	actionItems repositories.ActionItemRepository,
	llm LLM,
	transcriber AudioTranscriber,
	storage ObjectStore,
	modelName string,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetings:    meetings,
		transcripts: transcripts,
		minutes:     minutes,
		actionItems: actionItems,
		llm:         llm,
		transcriber: transcriber,
		storage:     storage,
		parser:      NewParser(),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		modelName:   modelName,
		logger:      logger,
	}
}

// CreateMeeting registers a new meeting record
func (s *Service) CreateMeeting(ctx context.Context, title string, source entities.MeetingSource, scheduledAt *time.Time) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(title, source)
	meeting.ScheduledAt = scheduledAt

	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Meeting created",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("source", string(source)),
		)
	}

	return meeting, nil
}

// GetMeeting returns a meeting by ID
func (s *Service) GetMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Meeting, error) {
	return s.meetings.GetByID(ctx, meetingID)
}

// ListMeetings returns meetings ordered by creation time
func (s *Service) ListMeetings(ctx context.Context, limit, offset int) ([]entities.Meeting, error) {
	return s.meetings.List(ctx, limit, offset)
}

// AttachTranscriptText attaches raw transcript text to a meeting
func (s *Service) AttachTranscriptText(ctx context.Context, meetingID uuid.UUID, text string) (*entities.Transcript, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.CanAttachTranscript() {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status), string(entities.MeetingStatusCreated))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ErrInvalidArgument("transcript text is empty")
	}

	transcript := entities.NewTranscript(meetingID, entities.MeetingSourceText)
	transcript.Text = text
	transcript.WordCount = len(strings.Fields(text))

	if err := s.transcripts.Save(ctx, transcript); err != nil {
		return nil, err
	}
	if err := s.meetings.UpdateStatus(ctx, meetingID, entities.MeetingStatusTranscribed); err != nil {
		return nil, err
	}

	s.storeTranscriptArtifact(ctx, meetingID, text)

	if s.logger != nil {
		s.logger.Info("✅ Transcript attached",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("word_count", transcript.WordCount),
		)
	}

	return transcript, nil
}

// storeTranscriptArtifact keeps a copy of the raw transcript in object
// storage. Best effort; the database row is the source of truth.
func (s *Service) storeTranscriptArtifact(ctx context.Context, meetingID uuid.UUID, text string) {
	if s.storage == nil {
		return
	}
	key := fmt.Sprintf("transcripts/%s.txt", meetingID)
	if err := s.storage.UploadText(ctx, key, text); err != nil && s.logger != nil {
		s.logger.Warn("Failed to store transcript artifact",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
}

// storeMinutesArtifact keeps the generated document in object storage
func (s *Service) storeMinutesArtifact(ctx context.Context, meetingID uuid.UUID, minutes *entities.Minutes) {
	if s.storage == nil {
		return
	}
	raw, err := json.MarshalIndent(minutes.Document, "", "  ")
	if err != nil {
		return
	}
	key := fmt.Sprintf("minutes/%s.json", meetingID)
	if err := s.storage.UploadText(ctx, key, string(raw)); err != nil && s.logger != nil {
		s.logger.Warn("Failed to store minutes artifact",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
	}
}

// IngestFromURL fetches transcript text from a public URL and attaches it
func (s *Service) IngestFromURL(ctx context.Context, meetingID uuid.UUID, url string) (*entities.Transcript, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.CanAttachTranscript() {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status), string(entities.MeetingStatusCreated))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.ErrInvalidArgument("invalid transcript url")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrTranscriptFetchFailed(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.ErrTranscriptFetchFailed(url, fmt.Errorf("status %d", resp.StatusCode))
	}

	// Cap the read; transcripts are text, not media
	const maxBody = 10 << 20
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript body: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, errors.ErrTranscriptFetchFailed(url, fmt.Errorf("empty content"))
	}

	transcript := entities.NewTranscript(meetingID, entities.MeetingSourceURL)
	transcript.Text = text
	transcript.WordCount = len(strings.Fields(text))

	if err := s.transcripts.Save(ctx, transcript); err != nil {
		return nil, err
	}
	if err := s.meetings.UpdateStatus(ctx, meetingID, entities.MeetingStatusTranscribed); err != nil {
		return nil, err
	}

	s.storeTranscriptArtifact(ctx, meetingID, text)

	return transcript, nil
}

// SubmitAudio submits a stored audio object for async transcription
func (s *Service) SubmitAudio(ctx context.Context, meetingID uuid.UUID, objectKey string) (*entities.Transcript, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.CanAttachTranscript() {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status), string(entities.MeetingStatusCreated))
	}

	audioURL, err := s.storage.GetFileURL(ctx, objectKey, 2*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve audio url: %w", err)
	}

	externalID, err := s.transcriber.SubmitFromURL(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	// Persist the external ID immediately: the completion webhook can arrive
	// within seconds and must be able to find this row.
	transcript := entities.NewTranscript(meetingID, entities.MeetingSourceAudio)
	transcript.ExternalID = externalID
	if err := s.transcripts.Save(ctx, transcript); err != nil {
		return nil, err
	}

	if err := s.meetings.UpdateStatus(ctx, meetingID, entities.MeetingStatusTranscribing); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcription job submitted",
			zap.String("meeting_id", meetingID.String()),
			zap.String("transcript_id", externalID),
		)
	}

	return transcript, nil
}

// webhookPayload is the shape AssemblyAI posts on completion
type webhookPayload struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}

// HandleTranscriptionWebhook processes a transcription-complete callback
func (s *Service) HandleTranscriptionWebhook(ctx context.Context, payload []byte) error {
	var hook webhookPayload
	if err := json.Unmarshal(payload, &hook); err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}
	if hook.TranscriptID == "" {
		return fmt.Errorf("webhook payload missing transcript_id")
	}

	transcript, err := s.transcripts.GetByExternalID(ctx, hook.TranscriptID)
	if err != nil {
		return err
	}
	if transcript == nil {
		return fmt.Errorf("no transcript found for external id %s", hook.TranscriptID)
	}

	if hook.Status != "" && !transcription.IsCompleted(hook.Status) {
		if err := s.meetings.MarkFailed(ctx, transcript.MeetingID, fmt.Sprintf("transcription ended with status %s", hook.Status)); err != nil {
			return err
		}
		return nil
	}

	result, err := s.transcriber.Fetch(ctx, hook.TranscriptID)
	if err != nil {
		s.meetings.MarkFailed(ctx, transcript.MeetingID, err.Error())
		return err
	}

	transcript.Text = result.Text
	transcript.ConfidenceScore = result.Confidence
	transcript.WordCount = result.WordCount
	transcript.Language = result.Language
	if result.Raw != nil {
		transcript.RawData = datatypes.NewJSONType(result.Raw)
	}

	if err := s.transcripts.Save(ctx, transcript); err != nil {
		return err
	}
	if err := s.meetings.UpdateStatus(ctx, transcript.MeetingID, entities.MeetingStatusTranscribed); err != nil {
		return err
	}

	s.storeTranscriptArtifact(ctx, transcript.MeetingID, transcript.Text)

	if s.logger != nil {
		s.logger.Info("✅ Transcript received from provider",
			zap.String("meeting_id", transcript.MeetingID.String()),
			zap.String("transcript_id", hook.TranscriptID),
			zap.Int("word_count", result.WordCount),
		)
	}

	return nil
}

// ProcessMeeting generates minutes and action items from the meeting's
// transcript. Transcripts below the analysis threshold get a minimal
// fallback document instead of an LLM call.
func (s *Service) ProcessMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, errors.ErrMeetingNotFound(meetingID.String())
	}
	if !meeting.CanProcess() {
		return nil, errors.ErrMeetingInvalidState(meetingID.String(), string(meeting.Status), string(entities.MeetingStatusTranscribed))
	}

	if existing, err := s.minutes.GetByMeetingID(ctx, meetingID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	transcript, err := s.transcripts.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if transcript == nil || strings.TrimSpace(transcript.Text) == "" {
		return nil, errors.ErrTranscriptNotFound(meetingID.String())
	}

	if err := s.meetings.UpdateStatus(ctx, meetingID, entities.MeetingStatusProcessing); err != nil {
		return nil, err
	}

	minutes := entities.NewMinutes(meetingID)

	if lengthErr := s.parser.ValidateTranscriptLength(transcript.Text); lengthErr != nil {
		if s.logger != nil {
			s.logger.Warn("Transcript below analysis threshold, using minimal summary",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(lengthErr),
			)
		}
		minutes.SetDocument(*s.parser.BuildMinimalDocument(meeting.Title, transcript.Text), "")
		minutes.IsFallback = true
	} else {
		raw, err := s.llm.GenerateMinutes(ctx, transcript.Text)
		if err != nil {
			s.meetings.MarkFailed(ctx, meetingID, err.Error())
			return nil, fmt.Errorf("minutes generation failed: %w", err)
		}

		doc, err := s.parser.ParseMinutesJSON(raw)
		if err != nil {
			s.meetings.MarkFailed(ctx, meetingID, err.Error())
			return nil, fmt.Errorf("minutes parsing failed: %w", err)
		}
		minutes.SetDocument(*doc, s.modelName)
	}

	// Persistence failures mark the meeting failed so it stays reprocessable;
	// a meeting left in processing has no retry path.
	if err := s.minutes.Save(ctx, minutes); err != nil {
		s.meetings.MarkFailed(ctx, meetingID, err.Error())
		return nil, fmt.Errorf("failed to persist minutes: %w", err)
	}

	items := s.buildActionItems(meetingID, minutes)
	if err := s.actionItems.SaveAll(ctx, items); err != nil {
		s.meetings.MarkFailed(ctx, meetingID, err.Error())
		return nil, fmt.Errorf("failed to persist action items: %w", err)
	}

	if err := s.meetings.UpdateStatus(ctx, meetingID, entities.MeetingStatusProcessed); err != nil {
		s.meetings.MarkFailed(ctx, meetingID, err.Error())
		return nil, err
	}

	s.storeMinutesArtifact(ctx, meetingID, minutes)

	if s.logger != nil {
		s.logger.Info("✅ Minutes generated",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("action_items", len(items)),
			zap.Bool("fallback", minutes.IsFallback),
		)
	}

	return minutes, nil
}

// buildActionItems converts the document's action items to tracked entities,
// classifying each by its keywords
func (s *Service) buildActionItems(meetingID uuid.UUID, minutes *entities.Minutes) []*entities.ActionItem {
	items := make([]*entities.ActionItem, 0, len(minutes.Document.ActionItems))
	for _, a := range minutes.Document.ActionItems {
		if strings.TrimSpace(a.Action) == "" {
			continue
		}
		kind := ClassifyAction(a.Action)
		item := entities.NewActionItem(meetingID, minutes.ID, a.Action, a.Owner, a.DueDate, kind)
		item.DueDate = ParseDueDate(a.DueDate)
		items = append(items, item)
	}
	return items
}

// GetMinutes returns the minutes for a meeting
func (s *Service) GetMinutes(ctx context.Context, meetingID uuid.UUID) (*entities.Minutes, error) {
	return s.minutes.GetByMeetingID(ctx, meetingID)
}

// ListActionItems returns the action items for a meeting
func (s *Service) ListActionItems(ctx context.Context, meetingID uuid.UUID) ([]entities.ActionItem, error) {
	return s.actionItems.ListByMeetingID(ctx, meetingID)
}
