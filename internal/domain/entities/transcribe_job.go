package entities

import (
	"time"

	"github.com/google/uuid"
)

// TranscribeJobStatus represents the status of a transcription job
type TranscribeJobStatus string

const (
	TranscribeJobStatusPending    TranscribeJobStatus = "pending"    // Waiting to be submitted to the transcription service
	TranscribeJobStatusSubmitted  TranscribeJobStatus = "submitted"  // Submitted, waiting for the transcript
	TranscribeJobStatusProcessing TranscribeJobStatus = "processing" // Service reported the job as running
	TranscribeJobStatusCompleted  TranscribeJobStatus = "completed"  // Transcript available
	TranscribeJobStatusFailed     TranscribeJobStatus = "failed"     // Transcription failed
)

// TranscribeJob tracks one media file through the external transcription
// service. Jobs are persisted in the job store so that a completion webhook
// or the polling worker can pick them up.
type TranscribeJob struct {
	ID            uuid.UUID           `json:"id"`
	ExternalJobID string              `json:"external_job_id,omitempty"` // transcript ID at the provider
	MediaURI      string              `json:"media_uri"`
	Status        TranscribeJobStatus `json:"status"`
	Transcript    string              `json:"transcript,omitempty"`
	Language      string              `json:"language,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
	LastError   string     `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTranscribeJob creates a pending transcription job for a media URI.
func NewTranscribeJob(mediaURI string) *TranscribeJob {
	now := time.Now()
	return &TranscribeJob{
		ID:         uuid.New(),
		MediaURI:   mediaURI,
		Status:     TranscribeJobStatusPending,
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsRetryable checks if the job can be resubmitted after a failure.
func (j *TranscribeJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries && j.Status == TranscribeJobStatusFailed
}

// IsTerminal reports whether the job has reached a final state.
func (j *TranscribeJob) IsTerminal() bool {
	return j.Status == TranscribeJobStatusCompleted ||
		(j.Status == TranscribeJobStatusFailed && !j.IsRetryable())
}
