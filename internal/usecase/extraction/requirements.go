package extraction

import (
	"regexp"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

const maxTitleLength = 60

var (
	nonFunctionalCuePattern = regexp.MustCompile(`(?i)\b(?:performance|latency|throughput|scalab|security|secure|encrypt|compliance|reliab|availab|uptime|response\s+time|load|capacity|usability|maintainab|audit)`)
	functionalCuePattern    = regexp.MustCompile(`(?i)\b(?:implement|build|create|add|support|provide|enable|allow|integrate|develop|send|generate|display|export|import)`)

	criteriaSplitPattern = regexp.MustCompile(`(?i)\s*(?:;|\band\s+then\b|\bthen\b|\band\b)\s+`)
)

// MapRequirements converts a meeting summary into tracked requirements.
// Action items map first, then key decisions, so IDs REQ-001..REQ-N follow
// that order with no gaps. Every requirement carries at least one
// acceptance criterion. keyPhrases scope the decision-linking vocabulary.
func MapRequirements(summary *entities.MeetingSummary, keyPhrases []string) []entities.Requirement {
	reqs := make([]entities.Requirement, 0, len(summary.ActionItems)+len(summary.KeyDecisions))
	phraseTokens := phraseTokenSet(keyPhrases)
	decisionTokens := tokenizeDecisions(summary.KeyDecisions, phraseTokens)

	n := 0
	for _, item := range summary.ActionItems {
		n++
		reqs = append(reqs, entities.Requirement{
			ID:                 entities.RequirementID(n),
			Title:              truncateTitle(item.Text),
			Description:        item.Text,
			Type:               classifyType(item.Text),
			Priority:           item.Priority,
			Status:             entities.RequirementStatusOpen,
			Assignee:           item.Assignee,
			DueDate:            item.DueDate,
			AcceptanceCriteria: acceptanceCriteria(item.Text),
			Source:             entities.RequirementSourceActionItem,
			RelatedDecisions:   relatedDecisions(item.Text, summary.KeyDecisions, decisionTokens, phraseTokens),
		})
	}

	for _, decision := range summary.KeyDecisions {
		n++
		reqs = append(reqs, entities.Requirement{
			ID:                 entities.RequirementID(n),
			Title:              truncateTitle(decision),
			Description:        decision,
			Type:               classifyType(decision),
			Priority:           entities.ActionItemPriorityMedium,
			Status:             entities.RequirementStatusOpen,
			AcceptanceCriteria: acceptanceCriteria(decision),
			Source:             entities.RequirementSourceDecision,
			// a decision always relates at least to itself
			RelatedDecisions: []string{decision},
		})
	}

	return reqs
}

// truncateTitle shortens text to the title limit at a word boundary,
// appending an ellipsis marker when anything was cut.
func truncateTitle(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxTitleLength {
		return text
	}
	cut := text[:maxTitleLength]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;") + "..."
}

// classifyType labels a requirement functional or non-functional by cue
// vocabulary. A capability verb wins; a quality-attribute cue alone makes
// it non-functional; text with neither defaults to functional.
func classifyType(text string) string {
	if nonFunctionalCuePattern.MatchString(text) && !functionalCuePattern.MatchString(text) {
		return entities.RequirementTypeNonFunctional
	}
	return entities.RequirementTypeFunctional
}

// acceptanceCriteria splits text into verifiable clauses. Fragments too
// short to verify are dropped. A single surviving clause would just repeat
// the source text, so anything short of two clauses becomes one synthesized
// criterion instead; the list is never empty.
func acceptanceCriteria(text string) []string {
	criteria := make([]string, 0, 2)
	for _, clause := range criteriaSplitPattern.Split(text, -1) {
		clause = strings.TrimSpace(strings.TrimRight(clause, ".,;"))
		if len(strings.Fields(clause)) >= 3 {
			criteria = append(criteria, clause)
		}
	}
	if len(criteria) < 2 {
		return []string{"Given the meeting context, \"" + truncateTitle(text) + "\" is completed."}
	}
	return criteria
}

// relatedDecisions links a requirement to decisions sharing at least two
// key-phrase tokens with its text.
func relatedDecisions(text string, decisions []string, decisionTokens []map[string]bool, phraseTokens map[string]bool) []string {
	if len(decisions) == 0 {
		return nil
	}
	textTokens := meaningfulTokens(text, phraseTokens)

	var related []string
	for i, decision := range decisions {
		if strings.EqualFold(decision, text) {
			continue
		}
		shared := 0
		for tok := range textTokens {
			if decisionTokens[i][tok] {
				shared++
				if shared >= 2 {
					related = append(related, decision)
					break
				}
			}
		}
	}
	return related
}

// phraseTokenSet breaks key phrases into their single-word tokens.
func phraseTokenSet(keyPhrases []string) map[string]bool {
	tokens := make(map[string]bool)
	for _, p := range keyPhrases {
		for _, w := range strings.Fields(p) {
			tokens[w] = true
		}
	}
	return tokens
}

func tokenizeDecisions(decisions []string, phraseTokens map[string]bool) []map[string]bool {
	tokens := make([]map[string]bool, len(decisions))
	for i, d := range decisions {
		tokens[i] = meaningfulTokens(d, phraseTokens)
	}
	return tokens
}

// meaningfulTokens returns the key-phrase tokens present in text.
func meaningfulTokens(text string, phraseTokens map[string]bool) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if phraseTokens[w] {
			tokens[w] = true
		}
	}
	return tokens
}
