package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/adapter/export"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/internal/usecase/extraction"
)

// Artifact file names under meetings/<id>/.
const (
	artifactTranscript   = "transcription.txt"
	artifactSummary      = "summary.json"
	artifactRequirements = "requirements.json"

	meetingsPrefix = "meetings/"
)

// Service manages processed meetings and their stored artifacts.
type Service interface {
	Process(ctx context.Context, transcript string, opts ProcessOptions) (*ProcessOutput, error)
	Get(ctx context.Context, meetingID string) (*Detail, error)
	List(ctx context.Context, limit int) ([]entities.MeetingRecord, error)
	Delete(ctx context.Context, meetingID string) error
	ExportRequirements(ctx context.Context, meetingID, format string) ([]byte, string, error)
	PresignArtifact(ctx context.Context, meetingID, artifact string) (string, error)
}

// ProcessOptions tune one processing run.
type ProcessOptions struct {
	UseGenerative bool
	AudioKey      string // object key of the source media, when known
}

// ProcessOutput is the result of processing one transcript.
type ProcessOutput struct {
	MeetingID    string                   `json:"meeting_id"`
	Summary      *entities.MeetingSummary `json:"summary"`
	Requirements []entities.Requirement   `json:"requirements"`
	Method       string                   `json:"method"`
	Warning      string                   `json:"warning,omitempty"`
}

// Detail is a stored meeting with its artifacts loaded.
type Detail struct {
	Record       *entities.MeetingRecord  `json:"record"`
	Transcript   string                   `json:"transcript"`
	Summary      *entities.MeetingSummary `json:"summary"`
	Requirements []entities.Requirement   `json:"requirements"`
}

type service struct {
	store    repositories.ObjectStore
	index    repositories.MeetingIndex
	pipeline *extraction.Pipeline
	presign  time.Duration
	logger   *zap.Logger
}

// NewService wires the extraction pipeline to storage. index may be nil;
// listing then falls back to scanning object keys.
func NewService(store repositories.ObjectStore, index repositories.MeetingIndex, pipeline *extraction.Pipeline, presignTTL time.Duration, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}
	return &service{
		store:    store,
		index:    index,
		pipeline: pipeline,
		presign:  presignTTL,
		logger:   logger,
	}
}

// Process runs the extraction pipeline over a transcript and persists the
// three artifacts plus the index record.
func (s *service) Process(ctx context.Context, transcript string, opts ProcessOptions) (*ProcessOutput, error) {
	result, err := s.pipeline.Process(ctx, transcript, opts.UseGenerative)
	if err != nil {
		return nil, err
	}

	record := &entities.MeetingRecord{
		MeetingID:        entities.NewMeetingID(),
		AudioKey:         opts.AudioKey,
		WordCount:        extraction.WordCount(transcript),
		ActionItemCount:  len(result.Summary.ActionItems),
		RequirementCount: len(result.Requirements),
		ExtractionMethod: result.Method,
		CreatedAt:        time.Now(),
	}
	prefix := record.ArtifactPrefix()
	record.TranscriptKey = prefix + artifactTranscript
	record.SummaryKey = prefix + artifactSummary
	record.RequirementsKey = prefix + artifactRequirements

	if err := s.putText(ctx, record.TranscriptKey, transcript); err != nil {
		return nil, err
	}
	if err := s.putJSON(ctx, record.SummaryKey, result.Summary); err != nil {
		return nil, err
	}
	reqJSON, err := export.RequirementsJSON(result.Requirements)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, record.RequirementsKey, bytes.NewReader(reqJSON), int64(len(reqJSON)), "application/json"); err != nil {
		return nil, fmt.Errorf("failed to store requirements: %w", err)
	}

	if s.index != nil {
		if err := s.index.SaveMeeting(ctx, record); err != nil {
			// artifacts are already durable; the index is best effort
			s.logger.Error("failed to index meeting",
				zap.String("meeting_id", record.MeetingID),
				zap.Error(err))
		}
	}

	s.logger.Info("meeting processed",
		zap.String("meeting_id", record.MeetingID),
		zap.String("method", result.Method),
		zap.Int("action_items", record.ActionItemCount),
		zap.Int("requirements", record.RequirementCount))

	return &ProcessOutput{
		MeetingID:    record.MeetingID,
		Summary:      result.Summary,
		Requirements: result.Requirements,
		Method:       result.Method,
		Warning:      result.Warning,
	}, nil
}

func (s *service) putText(ctx context.Context, key, content string) error {
	if err := s.store.Put(ctx, key, strings.NewReader(content), int64(len(content)), "text/plain"); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (s *service) putJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Get loads one meeting record and all of its artifacts.
func (s *service) Get(ctx context.Context, meetingID string) (*Detail, error) {
	record, err := s.getRecord(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.store.Get(ctx, record.TranscriptKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	var summary entities.MeetingSummary
	summaryData, err := s.store.Get(ctx, record.SummaryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	if err := json.Unmarshal(summaryData, &summary); err != nil {
		return nil, fmt.Errorf("corrupt summary artifact: %w", err)
	}

	reqs, err := s.loadRequirements(ctx, record)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Record:       record,
		Transcript:   string(transcript),
		Summary:      &summary,
		Requirements: reqs,
	}, nil
}

func (s *service) loadRequirements(ctx context.Context, record *entities.MeetingRecord) ([]entities.Requirement, error) {
	data, err := s.store.Get(ctx, record.RequirementsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}
	var reqs []entities.Requirement
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("corrupt requirements artifact: %w", err)
	}
	return reqs, nil
}

// getRecord prefers the index and reconstructs from object keys when no
// index is configured or the record is missing from it.
func (s *service) getRecord(ctx context.Context, meetingID string) (*entities.MeetingRecord, error) {
	if s.index != nil {
		record, err := s.index.GetMeeting(ctx, meetingID)
		if err == nil {
			return record, nil
		}
		if err != entities.ErrMeetingNotFound {
			return nil, err
		}
	}

	prefix := meetingsPrefix + meetingID + "/"
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan meeting artifacts: %w", err)
	}
	if len(keys) == 0 {
		return nil, entities.ErrMeetingNotFound
	}

	return &entities.MeetingRecord{
		MeetingID:       meetingID,
		TranscriptKey:   prefix + artifactTranscript,
		SummaryKey:      prefix + artifactSummary,
		RequirementsKey: prefix + artifactRequirements,
	}, nil
}

// List returns known meetings, newest first.
func (s *service) List(ctx context.Context, limit int) ([]entities.MeetingRecord, error) {
	if s.index != nil {
		return s.index.ListMeetings(ctx, limit)
	}

	keys, err := s.store.List(ctx, meetingsPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	ids := make(map[string]bool)
	for _, key := range keys {
		rest := strings.TrimPrefix(key, meetingsPrefix)
		if idx := strings.Index(rest, "/"); idx > 0 {
			ids[rest[:idx]] = true
		}
	}

	records := make([]entities.MeetingRecord, 0, len(ids))
	for id := range ids {
		prefix := meetingsPrefix + id + "/"
		records = append(records, entities.MeetingRecord{
			MeetingID:       id,
			TranscriptKey:   prefix + artifactTranscript,
			SummaryKey:      prefix + artifactSummary,
			RequirementsKey: prefix + artifactRequirements,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].MeetingID < records[j].MeetingID })
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Delete removes every artifact of a meeting and its index entry.
func (s *service) Delete(ctx context.Context, meetingID string) error {
	record, err := s.getRecord(ctx, meetingID)
	if err != nil {
		return err
	}

	keys, err := s.store.List(ctx, record.ArtifactPrefix())
	if err != nil {
		return fmt.Errorf("failed to list artifacts for deletion: %w", err)
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete artifact %s: %w", key, err)
		}
	}
	if record.AudioKey != "" {
		if err := s.store.Delete(ctx, record.AudioKey); err != nil {
			s.logger.Warn("failed to delete source media",
				zap.String("meeting_id", meetingID),
				zap.String("audio_key", record.AudioKey),
				zap.Error(err))
		}
	}

	if s.index != nil {
		if err := s.index.DeleteMeeting(ctx, meetingID); err != nil {
			return fmt.Errorf("failed to delete index entry: %w", err)
		}
	}

	s.logger.Info("meeting deleted", zap.String("meeting_id", meetingID))
	return nil
}

// ExportRequirements renders the stored requirements in the given format
// and returns the payload with its content type.
func (s *service) ExportRequirements(ctx context.Context, meetingID, format string) ([]byte, string, error) {
	contentType := export.ContentType(format)
	if contentType == "" {
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}

	record, err := s.getRecord(ctx, meetingID)
	if err != nil {
		return nil, "", err
	}
	reqs, err := s.loadRequirements(ctx, record)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	switch contentType {
	case "text/csv":
		data, err = export.RequirementsCSV(reqs)
	default:
		data, err = export.RequirementsJSON(reqs)
	}
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// PresignArtifact returns a time-limited download URL for one artifact.
func (s *service) PresignArtifact(ctx context.Context, meetingID, artifact string) (string, error) {
	record, err := s.getRecord(ctx, meetingID)
	if err != nil {
		return "", err
	}

	var key string
	switch artifact {
	case "transcript":
		key = record.TranscriptKey
	case "summary":
		key = record.SummaryKey
	case "requirements":
		key = record.RequirementsKey
	case "audio":
		if record.AudioKey == "" {
			return "", fmt.Errorf("meeting has no source media")
		}
		key = record.AudioKey
	default:
		return "", fmt.Errorf("unknown artifact %q", artifact)
	}
	return s.store.Presign(ctx, key, s.presign)
}
