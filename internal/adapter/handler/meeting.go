package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automation/errors"
	meetingdto "github.com/johnquangdev/meeting-automation/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/internal/usecase/dispatch"
	"github.com/johnquangdev/meeting-automation/internal/usecase/mom"
)

// Meeting handles the meeting processing pipeline endpoints
type Meeting struct {
	mom      *mom.Service
	dispatch dispatch.Service
	logger   *zap.Logger
}

// NewMeeting creates a new meeting handler
func NewMeeting(momService *mom.Service, dispatchService dispatch.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		mom:      momService,
		dispatch: dispatchService,
		logger:   logger,
	}
}

// meetingID parses the :id path parameter
func meetingID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// Create registers a meeting, optionally ingesting its transcript inline
// POST /v1/meetings
func (h *Meeting) Create(c echo.Context) error {
	var req meetingdto.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	source := entities.MeetingSourceText
	switch {
	case req.AudioObjectKey != "":
		source = entities.MeetingSourceAudio
	case req.TranscriptURL != "":
		source = entities.MeetingSourceURL
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("scheduled_at must be RFC 3339"))
		}
		scheduledAt = &at
	}

	ctx := c.Request().Context()
	meeting, err := h.mom.CreateMeeting(ctx, req.Title, source, scheduledAt)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	switch {
	case req.TranscriptText != "":
		if _, err := h.mom.AttachTranscriptText(ctx, meeting.ID, req.TranscriptText); err != nil {
			return HandleError(h.logger, c, err)
		}
	case req.TranscriptURL != "":
		if _, err := h.mom.IngestFromURL(ctx, meeting.ID, req.TranscriptURL); err != nil {
			return HandleError(h.logger, c, err)
		}
	case req.AudioObjectKey != "":
		if _, err := h.mom.SubmitAudio(ctx, meeting.ID, req.AudioObjectKey); err != nil {
			return HandleError(h.logger, c, err)
		}
	}

	// Re-read for the post-ingestion status
	meeting, err = h.mom.GetMeeting(ctx, meeting.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, meetingdto.FromMeeting(meeting))
}

// List returns meetings ordered by creation time
// GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	meetings, err := h.mom.ListMeetings(c.Request().Context(), limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]meetingdto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		resp = append(resp, meetingdto.FromMeeting(&meetings[i]))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Get returns one meeting
// GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.mom.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(id.String()))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, meetingdto.FromMeeting(meeting))
}

// AttachTranscript attaches raw transcript text to a meeting
// POST /v1/meetings/:id/transcript
func (h *Meeting) AttachTranscript(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	var req meetingdto.AttachTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	transcript, err := h.mom.AttachTranscriptText(c.Request().Context(), id, req.Text)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, map[string]interface{}{
		"transcript_id": transcript.ID.String(),
		"word_count":    transcript.WordCount,
	})
}

// Process triggers minutes generation for a transcribed meeting. The work
// runs in the background; poll the meeting status for completion.
// POST /v1/meetings/:id/process
func (h *Meeting) Process(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	meeting, err := h.mom.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if meeting == nil {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(id.String()))
	}
	if !meeting.CanProcess() {
		return HandleError(h.logger, c, errors.ErrMeetingInvalidState(id.String(), string(meeting.Status), string(entities.MeetingStatusTranscribed)))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := h.mom.ProcessMeeting(ctx, id); err != nil && h.logger != nil {
			h.logger.Error("❌ Background processing failed",
				zap.String("meeting_id", id.String()),
				zap.Error(err),
			)
		}
	}()

	return HandleSuccess(h.logger, c, http.StatusAccepted, map[string]string{
		"meeting_id": id.String(),
		"status":     string(entities.MeetingStatusProcessing),
	})
}

// Minutes returns the generated minutes document
// GET /v1/meetings/:id/minutes
func (h *Meeting) Minutes(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	minutes, err := h.mom.GetMinutes(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if minutes == nil {
		return HandleError(h.logger, c, errors.ErrMinutesNotFound(id.String()))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, meetingdto.FromMinutes(minutes))
}

// ActionItems returns the extracted action items
// GET /v1/meetings/:id/action-items
func (h *Meeting) ActionItems(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	items, err := h.mom.ListActionItems(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]meetingdto.ActionItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, meetingdto.FromActionItem(&items[i]))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Dispatch enqueues delivery jobs for the requested channels
// POST /v1/meetings/:id/dispatch
func (h *Meeting) Dispatch(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	var req meetingdto.DispatchRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	channels := make([]entities.DeliveryChannel, 0, len(req.Channels))
	for _, ch := range req.Channels {
		channels = append(channels, entities.DeliveryChannel(ch))
	}

	jobs, err := h.dispatch.EnqueueDispatch(c.Request().Context(), id, dispatch.Request{
		Channels:        channels,
		EmailRecipients: req.EmailRecipients,
		InviteAttendees: req.InviteAttendees,
		InviteStart:     req.InviteStart,
		InviteDuration:  req.InviteDuration,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]meetingdto.DeliveryJobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, meetingdto.FromDeliveryJob(&jobs[i]))
	}
	return HandleSuccess(h.logger, c, http.StatusAccepted, resp)
}

// Jobs returns the delivery jobs for a meeting
// GET /v1/meetings/:id/jobs
func (h *Meeting) Jobs(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	jobs, err := h.dispatch.ListJobs(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]meetingdto.DeliveryJobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, meetingdto.FromDeliveryJob(&jobs[i]))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}
