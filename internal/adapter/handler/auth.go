package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-automation/errors"
	authdto "github.com/johnquangdev/meeting-automation/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-automation/internal/usecase/auth"
)

// Auth handles token issuing endpoints
type Auth struct {
	service *auth.Service
	logger  *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(service *auth.Service, logger *zap.Logger) *Auth {
	return &Auth{
		service: service,
		logger:  logger,
	}
}

// Token exchanges the API key for a JWT token pair
// POST /v1/auth/token
func (h *Auth) Token(c echo.Context) error {
	var req authdto.TokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	resp, err := h.service.ExchangeAPIKey(c.Request().Context(), req.APIKey, req.ClientID)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("🔒 API key exchange rejected",
				zap.String("request_id", getRequestID(c)),
			)
		}
		return HandleError(h.logger, c, errors.ErrInvalidAPIKey())
	}

	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Refresh issues a new access token from a refresh token
// POST /v1/auth/refresh
func (h *Auth) Refresh(c echo.Context) error {
	var req authdto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	resp, err := h.service.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidRefreshToken())
	}

	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Revoke invalidates a refresh token
// POST /v1/auth/revoke
func (h *Auth) Revoke(c echo.Context) error {
	var req authdto.RevokeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.service.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}
