package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// MemoryIndex is the in-process fallback for deployments without Redis.
// It implements the same index contracts with plain maps under a RWMutex.
// State does not survive a restart.
type MemoryIndex struct {
	mu       sync.RWMutex
	meetings map[string]entities.MeetingRecord
	jobs     map[uuid.UUID]entities.TranscribeJob
	external map[string]uuid.UUID
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		meetings: make(map[string]entities.MeetingRecord),
		jobs:     make(map[uuid.UUID]entities.TranscribeJob),
		external: make(map[string]uuid.UUID),
	}
}

func (m *MemoryIndex) SaveMeeting(_ context.Context, record *entities.MeetingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meetings[record.MeetingID] = *record
	return nil
}

func (m *MemoryIndex) GetMeeting(_ context.Context, meetingID string) (*entities.MeetingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.meetings[meetingID]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	return &record, nil
}

func (m *MemoryIndex) ListMeetings(_ context.Context, limit int) ([]entities.MeetingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]entities.MeetingRecord, 0, len(m.meetings))
	for _, r := range m.meetings {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *MemoryIndex) DeleteMeeting(_ context.Context, meetingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meetings, meetingID)
	return nil
}

func (m *MemoryIndex) SaveJob(_ context.Context, job *entities.TranscribeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	if job.ExternalJobID != "" {
		m.external[job.ExternalJobID] = job.ID
	}
	return nil
}

func (m *MemoryIndex) GetJob(_ context.Context, id uuid.UUID) (*entities.TranscribeJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, entities.ErrJobNotFound
	}
	return &job, nil
}

func (m *MemoryIndex) GetJobByExternalID(_ context.Context, externalID string) (*entities.TranscribeJob, error) {
	m.mu.RLock()
	id, ok := m.external[externalID]
	m.mu.RUnlock()
	if !ok {
		return nil, entities.ErrJobNotFound
	}
	return m.GetJob(context.Background(), id)
}

func (m *MemoryIndex) ListJobsByStatus(_ context.Context, status entities.TranscribeJobStatus) ([]entities.TranscribeJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]entities.TranscribeJob, 0)
	for _, job := range m.jobs {
		if job.Status == status {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.Before(jobs[j].CreatedAt) })
	return jobs, nil
}
