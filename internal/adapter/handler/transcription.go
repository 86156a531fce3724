package handler

import (
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/errors"
	dto "github.com/meetscribe/meetscribe/internal/adapter/dto/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/internal/usecase/transcription"
	"github.com/meetscribe/meetscribe/pkg/config"
)

// Transcription exposes the speech-to-text job API.
type Transcription struct {
	service transcription.Service
	store   repositories.ObjectStore
	cfg     *config.Config
	logger  *zap.Logger
}

// NewTranscription creates the transcription handler.
func NewTranscription(service transcription.Service, store repositories.ObjectStore, cfg *config.Config, logger *zap.Logger) *Transcription {
	return &Transcription{service: service, store: store, cfg: cfg, logger: logger}
}

// Submit starts a transcription job from a media URL or an uploaded key.
// @Summary Submit media for transcription
// @Tags transcriptions
// @Accept json
// @Produce json
// @Router /v1/transcriptions [post]
func (h *Transcription) Submit(c echo.Context) error {
	var req dto.TranscriptionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("media_url must be a valid URL"))
	}
	if (req.MediaURL == "") == (req.MediaKey == "") {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("provide exactly one of media_url or media_key"))
	}

	mediaURI := req.MediaURL
	if req.MediaKey != "" {
		// provider needs a fetchable URL, not our internal key
		url, err := h.store.Presign(c.Request().Context(), req.MediaKey, h.cfg.Storage.PresignTTL)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
		}
		mediaURI = url
	}

	job, err := h.service.SubmitJob(c.Request().Context(), mediaURI)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrTranscriptionFailed(err))
	}
	return HandleSuccess(h.logger, c, dto.NewTranscriptionResponse(job))
}

// Get returns the current state of a transcription job.
// @Summary Get a transcription job
// @Tags transcriptions
// @Produce json
// @Router /v1/transcriptions/{id} [get]
func (h *Transcription) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid job id"))
	}

	job, err := h.service.GetJob(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrJobNotFound) {
			return HandleError(h.logger, c, errors.ErrNotFound("Transcription job"))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, dto.NewTranscriptionResponse(job))
}
