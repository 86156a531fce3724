package entities

// MeetingSummary is the structured result of processing one transcript.
// One instance is produced per processing run and is immutable after
// construction; the pipeline stages only append during composition.
type MeetingSummary struct {
	Summary          string            `json:"summary"`
	ActionItems      []ActionItem      `json:"action_items"`
	KeyDecisions     []string          `json:"key_decisions"`
	Participants     []string          `json:"participants"`
	Topics           []string          `json:"topics"`
	NextSteps        []string          `json:"next_steps"`
	DurationEstimate string            `json:"duration_estimate"`
	Entities         []ExtractedEntity `json:"entities"`
}

// NewMeetingSummary creates an empty summary with all collections
// initialized so JSON output never contains null arrays.
func NewMeetingSummary() *MeetingSummary {
	return &MeetingSummary{
		ActionItems:  make([]ActionItem, 0),
		KeyDecisions: make([]string, 0),
		Participants: make([]string, 0),
		Topics:       make([]string, 0),
		NextSteps:    make([]string, 0),
		Entities:     make([]ExtractedEntity, 0),
	}
}
