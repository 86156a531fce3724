package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// Parser validates and normalizes generative model responses.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// modelPayload is the JSON shape the model is instructed to return.
type modelPayload struct {
	Summary     string `json:"summary"`
	ActionItems []struct {
		Text     string `json:"text"`
		Assignee string `json:"assignee"`
		DueDate  string `json:"due_date"`
		Priority string `json:"priority"`
	} `json:"action_items"`
	KeyDecisions []string `json:"key_decisions"`
	Participants []string `json:"participants"`
	Topics       []string `json:"topics"`
	NextSteps    []string `json:"next_steps"`
}

// ParseModelResponse parses the model's JSON answer into a MeetingSummary.
// The model might wrap its answer in markdown code fences; those are
// stripped first. A response that is not valid JSON or that lacks a
// summary yields a malformed-output error so the caller can fall back.
func (p *Parser) ParseModelResponse(raw string) (*entities.MeetingSummary, error) {
	jsonString := extractJSON(raw)

	var payload modelPayload
	if err := json.Unmarshal([]byte(jsonString), &payload); err != nil {
		return nil, entities.NewExtractionError(entities.ExtractionKindMalformedModelOutput,
			fmt.Errorf("failed to parse model response: %w", err))
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return nil, entities.NewExtractionError(entities.ExtractionKindMalformedModelOutput,
			fmt.Errorf("missing summary in model response"))
	}

	summary := entities.NewMeetingSummary()
	summary.Summary = strings.TrimSpace(payload.Summary)

	for _, item := range payload.ActionItems {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		action := entities.NewActionItem(text)
		action.Assignee = strings.TrimSpace(item.Assignee)
		action.DueDate = strings.TrimSpace(item.DueDate)
		action.Priority = normalizePriority(item.Priority)
		summary.ActionItems = append(summary.ActionItems, action)
	}

	summary.KeyDecisions = trimNonEmpty(payload.KeyDecisions)
	summary.Participants = dedupeFold(trimNonEmpty(payload.Participants))
	summary.Topics = trimNonEmpty(payload.Topics)
	summary.NextSteps = trimNonEmpty(payload.NextSteps)
	return summary, nil
}

// extractJSON strips markdown code fences the model may wrap its answer in.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

func normalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case entities.ActionItemPriorityHigh:
		return entities.ActionItemPriorityHigh
	case entities.ActionItemPriorityLow:
		return entities.ActionItemPriorityLow
	default:
		return entities.ActionItemPriorityMedium
	}
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func dedupeFold(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
