package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

var (
	speakerLabelPattern = regexp.MustCompile(`(?m)(?:^|\n)\s*([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s*:`)
	speakerVerbPattern  = regexp.MustCompile(`([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s+(?:said|mentioned|noted|asked|suggested|proposed|agreed|decided)`)

	timestampPattern = regexp.MustCompile(`\b(\d{1,2}):([0-5]\d)\b`)
)

// decisionCues mark sentences that record an agreement or conclusion.
var decisionCues = []string{
	"decided",
	"agreed",
	"will go with",
	"concluded that",
	"decision:",
	"settled on",
}

// forwardCues mark sentences that describe upcoming work.
var forwardCues = []string{
	"next step", "follow up", "follow-up", "going forward",
	"will ", "plan to", "planning to",
}

// HeuristicExtractor produces a MeetingSummary from transcript text using
// only lexical rules. It needs no network access and never returns an
// error for non-empty input.
type HeuristicExtractor struct {
	cfg Config
}

// NewHeuristicExtractor creates an extractor; zero config fields fall back
// to defaults.
func NewHeuristicExtractor(cfg Config) *HeuristicExtractor {
	return &HeuristicExtractor{cfg: cfg.withDefaults()}
}

// Extract runs every heuristic stage over text and composes the result.
// Running it twice on the same input yields identical output.
func (h *HeuristicExtractor) Extract(_ context.Context, text string) (*entities.MeetingSummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, entities.NewExtractionError(entities.ExtractionKindEmptyInput, entities.ErrEmptyTranscript)
	}

	summary := entities.NewMeetingSummary()
	summary.Summary = Summarize(text, h.cfg.SummarySentences, h.cfg.TopKPhrases)
	summary.ActionItems = ExtractActionItems(text)
	summary.KeyDecisions = extractDecisions(text)
	summary.Participants = extractParticipants(text)
	summary.Topics = buildTopics(text, h.cfg.TopKPhrases)
	summary.NextSteps = extractNextSteps(summary.ActionItems, text)
	summary.DurationEstimate = EstimateDuration(text, h.cfg.SpeakingRateWPM)
	summary.Entities = ExtractEntities(text)
	return summary, nil
}

// extractDecisions returns full sentences containing a decision cue, in
// transcript order, deduplicated case-insensitively.
func extractDecisions(text string) []string {
	decisions := make([]string, 0)
	seen := make(map[string]bool)
	for _, sentence := range SplitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, cue := range decisionCues {
			if strings.Contains(lower, cue) {
				if !seen[lower] {
					seen[lower] = true
					decisions = append(decisions, sentence)
				}
				break
			}
		}
	}
	return decisions
}

// extractParticipants merges name entities, speaker labels and
// speech-verb subjects. Names are deduplicated case-insensitively, keeping
// the first casing seen.
func extractParticipants(text string) []string {
	participants := make([]string, 0)
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || nameStopWords[name] {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		participants = append(participants, name)
	}

	for _, m := range speakerLabelPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range speakerVerbPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, e := range ExtractEntities(text) {
		if e.Type == entities.EntityTypeName {
			add(e.Value)
		}
	}
	return participants
}

// buildTopics selects discussion topics from ranked phrases, preferring
// multi-word phrases before falling back to single words.
func buildTopics(text string, topK int) []string {
	ranked := rankPhrases(text)

	topics := make([]string, 0, topK)
	for _, r := range ranked {
		if len(topics) >= topK {
			break
		}
		if strings.Contains(r.phrase, " ") {
			topics = append(topics, r.phrase)
		}
	}
	for _, r := range ranked {
		if len(topics) >= topK {
			break
		}
		if !strings.Contains(r.phrase, " ") && !containsString(topics, r.phrase) {
			topics = append(topics, r.phrase)
		}
	}
	return topics
}

// extractNextSteps collects unassigned action items and forward-looking
// sentences not already captured as action items.
func extractNextSteps(items []entities.ActionItem, text string) []string {
	steps := make([]string, 0)
	seen := make(map[string]bool)
	captured := make(map[string]bool, len(items))

	for _, item := range items {
		captured[strings.ToLower(item.Text)] = true
		if item.Assignee == "" {
			key := strings.ToLower(item.Text)
			if !seen[key] {
				seen[key] = true
				steps = append(steps, item.Text)
			}
		}
	}

	for _, sentence := range SplitSentences(text) {
		lower := strings.ToLower(sentence)
		if captured[lower] || seen[lower] {
			continue
		}
		for _, cue := range forwardCues {
			if strings.Contains(lower, cue) {
				seen[lower] = true
				steps = append(steps, sentence)
				break
			}
		}
	}
	return steps
}

// EstimateDuration derives a human-readable meeting length. When the
// transcript carries MM:SS timestamps the largest one wins; otherwise the
// word count is divided by the speaking rate, with a one-minute floor.
func EstimateDuration(text string, speakingRateWPM int) string {
	minutes := 0
	for _, m := range timestampPattern.FindAllStringSubmatch(text, -1) {
		mins := atoiSafe(m[1])
		if mins > minutes {
			minutes = mins
		}
	}

	if minutes == 0 {
		if speakingRateWPM <= 0 {
			speakingRateWPM = DefaultConfig().SpeakingRateWPM
		}
		minutes = WordCount(text) / speakingRateWPM
		if minutes < 1 {
			minutes = 1
		}
	}

	if minutes >= 60 {
		return fmt.Sprintf("~%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("~%d minutes", minutes)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
