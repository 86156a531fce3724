package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingRecord is the metadata entry stored in the index for one processed
// meeting. The heavyweight artifacts (transcript, summary, requirements)
// live in the object store under the keys recorded here.
type MeetingRecord struct {
	MeetingID        string    `json:"meeting_id"`
	AudioKey         string    `json:"audio_key,omitempty"`
	TranscriptKey    string    `json:"transcript_key"`
	SummaryKey       string    `json:"summary_key"`
	RequirementsKey  string    `json:"requirements_key"`
	WordCount        int       `json:"word_count"`
	ActionItemCount  int       `json:"action_item_count"`
	RequirementCount int       `json:"requirement_count"`
	ExtractionMethod string    `json:"extraction_method"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewMeetingID generates a unique meeting identifier.
func NewMeetingID() string {
	return "meeting-" + uuid.NewString()
}

// Object keys for the artifacts of a meeting, relative to the bucket root.
func (m *MeetingRecord) ArtifactPrefix() string {
	return "meetings/" + m.MeetingID + "/"
}
