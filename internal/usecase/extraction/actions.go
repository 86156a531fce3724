package extraction

import (
	"regexp"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

var (
	actionCuePattern = regexp.MustCompile(`(?i)\b(?:will|should|must|needs?\s+to|going\s+to|have\s+to)\b|\b(?:action\s+items?|todos?|tasks?)\s*:`)

	// Assignee patterns stay case-sensitive; the capitalized token is the
	// signal that distinguishes "John will" from "this will".
	assigneeVerbPattern   = regexp.MustCompile(`([A-Z][a-z]+)\s+(?:will|should|must|needs?\s+to|is\s+going\s+to)`)
	assigneeAssignPattern = regexp.MustCompile(`(?:assigned\s+to|Assigned\s+to)\s+([A-Z][a-z]+)`)

	highPriorityPattern = regexp.MustCompile(`(?i)\b(?:urgent|asap|critical|immediately|right\s+away|top\s+priority)\b`)
	lowPriorityPattern  = regexp.MustCompile(`(?i)\b(?:when\s+possible|eventually|at\s+some\s+point|no\s+rush|low\s+priority|nice\s+to\s+have)\b`)
)

// imperativeVerbs mark sentences that open with a direct instruction,
// e.g. "Send the deck to the client".
var imperativeVerbs = map[string]bool{
	"send": true, "create": true, "update": true, "review": true,
	"schedule": true, "prepare": true, "finish": true, "complete": true,
	"implement": true, "build": true, "fix": true, "follow": true,
	"draft": true, "share": true, "investigate": true, "confirm": true,
	"set": true, "write": true, "test": true, "deploy": true,
}

// ExtractActionItems scans sentences for commitment cues and imperative
// openings. Each hit becomes an ActionItem with assignee, due date and
// priority filled from the same sentence where detectable. Sentence order
// is preserved and duplicate texts (case-insensitive) are dropped.
func ExtractActionItems(text string) []entities.ActionItem {
	items := make([]entities.ActionItem, 0)
	seen := make(map[string]bool)

	for _, sentence := range SplitSentences(text) {
		if !isActionSentence(sentence) {
			continue
		}
		key := strings.ToLower(sentence)
		if seen[key] {
			continue
		}
		seen[key] = true

		item := entities.NewActionItem(sentence)
		item.Assignee = detectAssignee(sentence)
		item.DueDate = firstDateIn(sentence)
		item.Priority = detectPriority(sentence)
		items = append(items, item)
	}
	return items
}

func isActionSentence(sentence string) bool {
	if actionCuePattern.MatchString(sentence) {
		return true
	}
	fields := strings.Fields(sentence)
	if len(fields) < 2 {
		return false
	}
	return imperativeVerbs[strings.ToLower(fields[0])]
}

func detectAssignee(sentence string) string {
	if m := assigneeVerbPattern.FindStringSubmatch(sentence); m != nil {
		if !nameStopWords[m[1]] {
			return m[1]
		}
	}
	if m := assigneeAssignPattern.FindStringSubmatch(sentence); m != nil {
		return m[1]
	}
	return ""
}

func detectPriority(sentence string) string {
	switch {
	case highPriorityPattern.MatchString(sentence):
		return entities.ActionItemPriorityHigh
	case lowPriorityPattern.MatchString(sentence):
		return entities.ActionItemPriorityLow
	default:
		return entities.ActionItemPriorityMedium
	}
}
