package cache

import (
	"context"
	"testing"
	"time"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

func TestMemoryIndex_MeetingLifecycle(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	record := &entities.MeetingRecord{
		MeetingID: "meeting-1",
		CreatedAt: time.Now(),
	}
	if err := idx.SaveMeeting(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := idx.GetMeeting(ctx, "meeting-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MeetingID != "meeting-1" {
		t.Errorf("got %+v", got)
	}

	if err := idx.DeleteMeeting(ctx, "meeting-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := idx.GetMeeting(ctx, "meeting-1"); err != entities.ErrMeetingNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryIndex_ListMeetingsNewestFirst(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"meeting-a", "meeting-b", "meeting-c"} {
		err := idx.SaveMeeting(ctx, &entities.MeetingRecord{
			MeetingID: id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	records, err := idx.ListMeetings(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].MeetingID != "meeting-c" || records[1].MeetingID != "meeting-b" {
		t.Errorf("wrong order: %v, %v", records[0].MeetingID, records[1].MeetingID)
	}
}

func TestMemoryIndex_JobsByStatusAndExternalID(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	job := entities.NewTranscribeJob("https://example.com/audio.mp3")
	if err := idx.SaveJob(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}

	pending, err := idx.ListJobsByStatus(ctx, entities.TranscribeJobStatusPending)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != job.ID {
		t.Fatalf("expected the pending job, got %v", pending)
	}

	job.ExternalJobID = "transcript-123"
	job.Status = entities.TranscribeJobStatusSubmitted
	if err := idx.SaveJob(ctx, job); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := idx.GetJobByExternalID(ctx, "transcript-123")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != job.ID || got.Status != entities.TranscribeJobStatusSubmitted {
		t.Errorf("got %+v", got)
	}

	if _, err := idx.GetJobByExternalID(ctx, "missing"); err != entities.ErrJobNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
