package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetscribe/meetscribe/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                  *config.Config
	uploadHandler        *Upload
	transcriptionHandler *Transcription
	webhookHandler       *Webhook
	meetingHandler       *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, upload *Upload, trans *Transcription, webhook *Webhook, meeting *Meeting) *Router {
	return &Router{
		cfg:                  cfg,
		uploadHandler:        upload,
		transcriptionHandler: trans,
		webhookHandler:       webhook,
		meetingHandler:       meeting,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	v1.POST("/uploads", rt.uploadHandler.Create)
	v1.GET("/files/presign", rt.uploadHandler.Presign)

	v1.POST("/transcriptions", rt.transcriptionHandler.Submit)
	v1.GET("/transcriptions/:id", rt.transcriptionHandler.Get)

	v1.POST("/webhooks/assemblyai", rt.webhookHandler.AssemblyAI)

	v1.POST("/parse", rt.meetingHandler.Parse)

	meetings := v1.Group("/meetings")
	meetings.POST("/process", rt.meetingHandler.Process)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.GET("/:id/requirements/export", rt.meetingHandler.Export)
	meetings.GET("/:id/artifacts/:artifact/presign", rt.meetingHandler.Presign)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
