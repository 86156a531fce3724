package entities

// ActionItem is a task or commitment detected in a transcript sentence.
// Items are created once per detected sentence and never mutated afterwards.
type ActionItem struct {
	Text     string `json:"text"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// ActionItem priority levels
const (
	ActionItemPriorityHigh   = "high"
	ActionItemPriorityMedium = "medium"
	ActionItemPriorityLow    = "low"
)

// ActionItem lifecycle states
const (
	ActionItemStatusOpen       = "open"
	ActionItemStatusInProgress = "in_progress"
	ActionItemStatusDone       = "done"
)

// NewActionItem creates an ActionItem with default priority and status.
func NewActionItem(text string) ActionItem {
	return ActionItem{
		Text:     text,
		Priority: ActionItemPriorityMedium,
		Status:   ActionItemStatusOpen,
	}
}
