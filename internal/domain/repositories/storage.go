package repositories

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// ObjectStore is the narrow contract the service has with its blob storage
// backend (MinIO in the default deployment).
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// MeetingIndex is the optional key-value metadata index over processed
// meetings. When no index is configured the service falls back to listing
// object store prefixes.
type MeetingIndex interface {
	SaveMeeting(ctx context.Context, record *entities.MeetingRecord) error
	GetMeeting(ctx context.Context, meetingID string) (*entities.MeetingRecord, error)
	ListMeetings(ctx context.Context, limit int) ([]entities.MeetingRecord, error)
	DeleteMeeting(ctx context.Context, meetingID string) error
}

// JobStore persists transcription job state between submission, webhook
// delivery and the polling worker.
type JobStore interface {
	SaveJob(ctx context.Context, job *entities.TranscribeJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error)
	GetJobByExternalID(ctx context.Context, externalID string) (*entities.TranscribeJob, error)
	ListJobsByStatus(ctx context.Context, status entities.TranscribeJobStatus) ([]entities.TranscribeJob, error)
}
