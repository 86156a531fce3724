package handler

import (
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/usecase/transcription"
)

// Webhook receives provider callbacks.
type Webhook struct {
	service transcription.Service
	logger  *zap.Logger
}

// NewWebhook creates the webhook handler.
func NewWebhook(service transcription.Service, logger *zap.Logger) *Webhook {
	return &Webhook{service: service, logger: logger}
}

// AssemblyAI handles the transcription completion callback. The provider
// retries on non-2xx, so unknown jobs are acknowledged and logged rather
// than failed.
// @Summary AssemblyAI transcription webhook
// @Tags webhooks
// @Accept json
// @Router /v1/webhooks/assemblyai [post]
func (h *Webhook) AssemblyAI(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	signature := c.Request().Header.Get("X-Webhook-Secret")
	if err := h.service.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		if stdErrors.Is(err, transcription.ErrInvalidSignature) {
			return HandleError(h.logger, c, errors.ErrInvalidWebhookSignature())
		}
		h.logger.Warn("webhook processing failed",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err))
		return c.NoContent(http.StatusOK)
	}
	return c.NoContent(http.StatusOK)
}
