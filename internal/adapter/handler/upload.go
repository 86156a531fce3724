package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/errors"
	dto "github.com/meetscribe/meetscribe/internal/adapter/dto/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/pkg/config"
)

// allowedMediaExtensions are the media types accepted for transcription.
var allowedMediaExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".webm": "video/webm",
	".ogg":  "audio/ogg",
}

// Upload accepts media files and stores them for transcription.
type Upload struct {
	store  repositories.ObjectStore
	cfg    *config.Config
	logger *zap.Logger
}

// NewUpload creates the upload handler.
func NewUpload(store repositories.ObjectStore, cfg *config.Config, logger *zap.Logger) *Upload {
	return &Upload{store: store, cfg: cfg, logger: logger}
}

// Create stores a multipart media file and returns its key plus a
// presigned URL the transcription provider can fetch it from.
// @Summary Upload a media file
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Router /v1/uploads [post]
func (h *Upload) Create(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field 'file' is required"))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedMediaExtensions[ext]
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnsupportedMediaType(ext))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(fmt.Errorf("failed to open upload: %w", err)))
	}
	defer src.Close()

	key := "uploads/" + uuid.NewString() + ext
	if err := h.store.Put(c.Request().Context(), key, src, fileHeader.Size, contentType); err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("upload", err))
	}

	mediaURL, err := h.store.Presign(c.Request().Context(), key, h.cfg.Storage.PresignTTL)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}

	h.logger.Info("media uploaded",
		zap.String("key", key),
		zap.Int64("size", fileHeader.Size),
		zap.String("content_type", contentType))

	return HandleSuccess(h.logger, c, dto.UploadResponse{
		Key:      key,
		MediaURL: mediaURL,
		Size:     fileHeader.Size,
	})
}

// Presign returns a temporary download URL for any stored object key.
// @Summary Presign a stored file
// @Tags uploads
// @Produce json
// @Router /v1/files/presign [get]
func (h *Upload) Presign(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("query parameter 'key' is required"))
	}

	url, err := h.store.Presign(c.Request().Context(), key, h.cfg.Storage.PresignTTL)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}
	return HandleSuccess(h.logger, c, dto.PresignResponse{URL: url})
}
