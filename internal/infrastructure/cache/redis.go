package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/pkg/config"
)

// Key layout of the Redis index.
const (
	meetingKeyPrefix  = "meeting:"
	meetingsByTimeKey = "meetings:by_time"
	jobKeyPrefix      = "job:"
	externalJobPrefix = "extjob:"
	jobStatusPrefix   = "jobs:status:"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisIndex keeps meeting metadata and transcription job state in Redis.
// Meetings are JSON blobs under meeting:<id> with a by-time sorted set for
// listing; jobs are JSON under job:<id> with status sets and an external-ID
// lookup key.
type RedisIndex struct {
	client *redis.Client
}

// NewRedisIndex wraps a connected client.
func NewRedisIndex(client *redis.Client) *RedisIndex {
	return &RedisIndex{client: client}
}

// SaveMeeting upserts a meeting record and its listing entry.
func (r *RedisIndex) SaveMeeting(ctx context.Context, record *entities.MeetingRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, meetingKeyPrefix+record.MeetingID, data, 0)
	pipe.ZAdd(ctx, meetingsByTimeKey, redis.Z{
		Score:  float64(record.CreatedAt.UnixNano()),
		Member: record.MeetingID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save meeting %s: %w", record.MeetingID, err)
	}
	return nil
}

// GetMeeting loads one meeting record.
func (r *RedisIndex) GetMeeting(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	data, err := r.client.Get(ctx, meetingKeyPrefix+meetingID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting %s: %w", meetingID, err)
	}

	var record entities.MeetingRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting %s: %w", meetingID, err)
	}
	return &record, nil
}

// ListMeetings returns up to limit records, newest first.
func (r *RedisIndex) ListMeetings(ctx context.Context, limit int) ([]entities.MeetingRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	ids, err := r.client.ZRevRange(ctx, meetingsByTimeKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	records := make([]entities.MeetingRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.GetMeeting(ctx, id)
		if errors.Is(err, entities.ErrMeetingNotFound) {
			// record deleted between the range read and the fetch
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// DeleteMeeting removes a meeting record and its listing entry.
func (r *RedisIndex) DeleteMeeting(ctx context.Context, meetingID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, meetingKeyPrefix+meetingID)
	pipe.ZRem(ctx, meetingsByTimeKey, meetingID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete meeting %s: %w", meetingID, err)
	}
	return nil
}

// SaveJob upserts a transcription job, maintaining the status sets and the
// external-ID lookup.
func (r *RedisIndex) SaveJob(ctx context.Context, job *entities.TranscribeJob) error {
	prev, err := r.GetJob(ctx, job.ID)
	if err != nil && !errors.Is(err, entities.ErrJobNotFound) {
		return err
	}

	job.UpdatedAt = time.Now()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, jobKeyPrefix+job.ID.String(), data, 0)
	if prev != nil && prev.Status != job.Status {
		pipe.SRem(ctx, jobStatusPrefix+string(prev.Status), job.ID.String())
	}
	pipe.SAdd(ctx, jobStatusPrefix+string(job.Status), job.ID.String())
	if job.ExternalJobID != "" {
		pipe.Set(ctx, externalJobPrefix+job.ExternalJobID, job.ID.String(), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

// GetJob loads one transcription job.
func (r *RedisIndex) GetJob(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error) {
	data, err := r.client.Get(ctx, jobKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}

	var job entities.TranscribeJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	return &job, nil
}

// GetJobByExternalID resolves a provider transcript ID to the local job.
func (r *RedisIndex) GetJobByExternalID(ctx context.Context, externalID string) (*entities.TranscribeJob, error) {
	idStr, err := r.client.Get(ctx, externalJobPrefix+externalID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve external job %s: %w", externalID, err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt external job mapping %s: %w", externalID, err)
	}
	return r.GetJob(ctx, id)
}

// ListJobsByStatus returns every job currently in the given status.
func (r *RedisIndex) ListJobsByStatus(ctx context.Context, status entities.TranscribeJobStatus) ([]entities.TranscribeJob, error) {
	ids, err := r.client.SMembers(ctx, jobStatusPrefix+string(status)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s jobs: %w", status, err)
	}

	jobs := make([]entities.TranscribeJob, 0, len(ids))
	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		job, err := r.GetJob(ctx, id)
		if errors.Is(err, entities.ErrJobNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}
