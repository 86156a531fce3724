package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/errors"
	dto "github.com/meetscribe/meetscribe/internal/adapter/dto/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/usecase/extraction"
	meetingusecase "github.com/meetscribe/meetscribe/internal/usecase/meeting"
)

// Meeting exposes meeting processing over HTTP.
type Meeting struct {
	service  meetingusecase.Service
	pipeline *extraction.Pipeline
	logger   *zap.Logger
}

// NewMeeting creates the meeting handler.
func NewMeeting(service meetingusecase.Service, pipeline *extraction.Pipeline, logger *zap.Logger) *Meeting {
	return &Meeting{service: service, pipeline: pipeline, logger: logger}
}

// Process structures a transcript and stores the artifacts.
// @Summary Process a meeting transcript
// @Tags meetings
// @Accept json
// @Produce json
// @Router /v1/meetings/process [post]
func (h *Meeting) Process(c echo.Context) error {
	var req dto.ProcessRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("transcript is required"))
	}

	out, err := h.service.Process(c.Request().Context(), req.Transcript, meetingusecase.ProcessOptions{
		UseGenerative: req.UseGenerative,
		AudioKey:      req.AudioKey,
	})
	if err != nil {
		return HandleError(h.logger, c, mapExtractionError(err))
	}
	return HandleSuccess(h.logger, c, out)
}

// Parse extracts structured data without persisting anything.
// @Summary Parse raw transcript text
// @Tags meetings
// @Accept json
// @Produce json
// @Router /v1/parse [post]
func (h *Meeting) Parse(c echo.Context) error {
	var req dto.ParseRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("text is required"))
	}

	result, err := h.pipeline.Process(c.Request().Context(), req.Text, req.UseGenerative)
	if err != nil {
		return HandleError(h.logger, c, mapExtractionError(err))
	}
	return HandleSuccess(h.logger, c, dto.ParseResponse{
		Summary:      result.Summary,
		Requirements: result.Requirements,
		Method:       result.Method,
		Warning:      result.Warning,
	})
}

// Get returns one stored meeting with all artifacts.
// @Summary Get a processed meeting
// @Tags meetings
// @Produce json
// @Router /v1/meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, mapMeetingError(err))
	}
	return HandleSuccess(h.logger, c, detail)
}

// List returns known meetings, newest first.
// @Summary List processed meetings
// @Tags meetings
// @Produce json
// @Router /v1/meetings [get]
func (h *Meeting) List(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be a positive integer"))
		}
		limit = parsed
	}

	records, err := h.service.List(c.Request().Context(), limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrIndexFailed("list", err))
	}
	return HandleSuccess(h.logger, c, records)
}

// Delete removes a meeting and every stored artifact.
// @Summary Delete a processed meeting
// @Tags meetings
// @Router /v1/meetings/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return HandleError(h.logger, c, mapMeetingError(err))
	}
	return HandleSuccess(h.logger, c, map[string]string{"meeting_id": c.Param("id")})
}

// Export streams the requirements in the requested format.
// @Summary Export requirements as JSON or CSV
// @Tags meetings
// @Produce json,text/csv
// @Router /v1/meetings/{id}/requirements/export [get]
func (h *Meeting) Export(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("unsupported format %q", format)))
	}

	data, contentType, err := h.service.ExportRequirements(c.Request().Context(), c.Param("id"), format)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return HandleError(h.logger, c, errors.ErrNotFound("Meeting"))
		}
		return HandleError(h.logger, c, errors.ErrExportFailed(format, err))
	}

	filename := fmt.Sprintf("%s-requirements.%s", c.Param("id"), format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}

// Presign returns a temporary download URL for one artifact.
// @Summary Presign an artifact download
// @Tags meetings
// @Produce json
// @Router /v1/meetings/{id}/artifacts/{artifact}/presign [get]
func (h *Meeting) Presign(c echo.Context) error {
	artifact := c.Param("artifact")
	switch artifact {
	case "transcript", "summary", "requirements", "audio":
	default:
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("unknown artifact %q", artifact)))
	}

	url, err := h.service.PresignArtifact(c.Request().Context(), c.Param("id"), artifact)
	if err != nil {
		return HandleError(h.logger, c, mapMeetingError(err))
	}
	return HandleSuccess(h.logger, c, dto.PresignResponse{URL: url})
}

// mapExtractionError converts pipeline errors to transport errors.
func mapExtractionError(err error) error {
	switch entities.ExtractionKindOf(err) {
	case entities.ExtractionKindEmptyInput:
		return errors.ErrEmptyTranscript()
	case "":
		if stdErrors.Is(err, entities.ErrEmptyTranscript) {
			return errors.ErrEmptyTranscript()
		}
	}
	return errors.ErrExtractionFailed(err)
}

// mapMeetingError converts meeting lookup errors to transport errors.
func mapMeetingError(err error) error {
	if stdErrors.Is(err, entities.ErrMeetingNotFound) {
		return errors.ErrNotFound("Meeting")
	}
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}
	return errors.ErrInternal(err)
}
