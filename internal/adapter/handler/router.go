package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-automation/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-automation/pkg/config"
	"github.com/johnquangdev/meeting-automation/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	jwtManager     *jwt.Manager
	authHandler    *Auth
	meetingHandler *Meeting
	webhookHandler *Webhook
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, jwtManager *jwt.Manager, authHandler *Auth, meetingHandler *Meeting, webhookHandler *Webhook) *Router {
	return &Router{
		cfg:            cfg,
		jwtManager:     jwtManager,
		authHandler:    authHandler,
		meetingHandler: meetingHandler,
		webhookHandler: webhookHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupAuthRoutes configures token issuing routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/token", rt.authHandler.Token)
	authGroup.POST("/refresh", rt.authHandler.Refresh)
	authGroup.POST("/revoke", rt.authHandler.Revoke)
}

// setupMeetingRoutes configures the meeting pipeline routes. All of them
// require a valid access token.
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings", middleware.EchoAuth(rt.jwtManager))

	meetings.POST("", rt.meetingHandler.Create)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.POST("/:id/transcript", rt.meetingHandler.AttachTranscript)
	meetings.POST("/:id/process", rt.meetingHandler.Process)
	meetings.GET("/:id/minutes", rt.meetingHandler.Minutes)
	meetings.GET("/:id/action-items", rt.meetingHandler.ActionItems)
	meetings.POST("/:id/dispatch", rt.meetingHandler.Dispatch)
	meetings.GET("/:id/jobs", rt.meetingHandler.Jobs)
}

// setupWebhookRoutes configures provider callback routes. These authenticate
// with the webhook secret, not a bearer token.
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")

	webhooks.POST("/assemblyai", rt.webhookHandler.AssemblyAI)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
