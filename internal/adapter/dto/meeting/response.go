package meeting

import (
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// UploadResponse describes stored media.
type UploadResponse struct {
	Key      string `json:"key"`
	MediaURL string `json:"media_url"`
	Size     int64  `json:"size"`
}

// TranscriptionResponse is the job state returned on submit and poll.
type TranscriptionResponse struct {
	JobID       string     `json:"job_id"`
	Status      string     `json:"status"`
	Transcript  string     `json:"transcript,omitempty"`
	Language    string     `json:"language,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTranscriptionResponse maps a job entity onto the wire shape.
func NewTranscriptionResponse(job *entities.TranscribeJob) TranscriptionResponse {
	return TranscriptionResponse{
		JobID:       job.ID.String(),
		Status:      string(job.Status),
		Transcript:  job.Transcript,
		Language:    job.Language,
		LastError:   job.LastError,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
}

// ParseResponse is the unstored extraction result.
type ParseResponse struct {
	Summary      *entities.MeetingSummary `json:"summary"`
	Requirements []entities.Requirement   `json:"requirements"`
	Method       string                   `json:"method"`
	Warning      string                   `json:"warning,omitempty"`
}

// PresignResponse carries a time-limited artifact URL.
type PresignResponse struct {
	URL string `json:"url"`
}
