package handler

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automation/internal/usecase/mom"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

// webhookSecretHeader carries the shared secret configured with the
// transcription provider when the job is submitted
const webhookSecretHeader = "X-Webhook-Secret"

// Webhook handles callbacks from the transcription provider
type Webhook struct {
	mom    *mom.Service
	cfg    *config.Config
	logger *zap.Logger
}

// NewWebhook creates a new webhook handler
func NewWebhook(momService *mom.Service, cfg *config.Config, logger *zap.Logger) *Webhook {
	return &Webhook{
		mom:    momService,
		cfg:    cfg,
		logger: logger,
	}
}

// AssemblyAI processes a transcription-complete callback
// POST /v1/webhooks/assemblyai
func (h *Webhook) AssemblyAI(c echo.Context) error {
	if secret := h.cfg.Assembly.WebhookSecret; secret != "" {
		got := c.Request().Header.Get(webhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			if h.logger != nil {
				h.logger.Warn("🔒 Webhook rejected: bad secret",
					zap.String("request_id", getRequestID(c)),
				)
			}
			return c.JSON(http.StatusUnauthorized, errs{Message: "invalid webhook secret"})
		}
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errs{Message: "failed to read webhook body"})
	}

	if err := h.mom.HandleTranscriptionWebhook(c.Request().Context(), body); err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Webhook processing failed", zap.Error(err))
		}
		// The provider retries on non-2xx; a payload we cannot match will
		// never succeed, so acknowledge it anyway.
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}
