package entities

import "fmt"

// Requirement types
const (
	RequirementTypeFunctional    = "functional"
	RequirementTypeNonFunctional = "non_functional"
)

// RequirementStatusOpen is the status assigned to every freshly mapped
// requirement.
const RequirementStatusOpen = "open"

// Requirement sources
const (
	RequirementSourceActionItem = "meeting_action_item"
	RequirementSourceDecision   = "meeting_decision"
)

// Requirement is a tracked record derived from an action item or decision.
// IDs follow the REQ-NNN format and are unique and sequential within one
// processing run.
type Requirement struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	Priority           string   `json:"priority"`
	Status             string   `json:"status"`
	Assignee           string   `json:"assignee,omitempty"`
	DueDate            string   `json:"due_date,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	Source             string   `json:"source"`
	RelatedDecisions   []string `json:"related_decisions,omitempty"`
}

// RequirementID renders the REQ-NNN identifier for a 1-based sequence number.
func RequirementID(n int) string {
	return fmt.Sprintf("REQ-%03d", n)
}
