package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// Completer is the single-call contract with a generative model backend.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenerativeExtractor asks a language model to structure the transcript.
// Transport failures and unparseable answers surface as typed extraction
// errors so the pipeline can fall back to the heuristics.
type GenerativeExtractor struct {
	completer Completer
	parser    *Parser
	cfg       Config
}

// NewGenerativeExtractor wires a Completer into the extraction flow.
func NewGenerativeExtractor(completer Completer, cfg Config) *GenerativeExtractor {
	return &GenerativeExtractor{
		completer: completer,
		parser:    NewParser(),
		cfg:       cfg.withDefaults(),
	}
}

// Extract sends the transcript to the model and parses the structured
// answer. The duration estimate is always computed locally; models are
// unreliable at arithmetic over long texts.
func (g *GenerativeExtractor) Extract(ctx context.Context, text string) (*entities.MeetingSummary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, entities.NewExtractionError(entities.ExtractionKindEmptyInput, entities.ErrEmptyTranscript)
	}

	raw, err := g.completer.Complete(ctx, buildPrompt(text))
	if err != nil {
		return nil, entities.NewExtractionError(entities.ExtractionKindServiceUnavailable,
			fmt.Errorf("model call failed: %w", err))
	}

	summary, err := g.parser.ParseModelResponse(raw)
	if err != nil {
		return nil, err
	}

	summary.DurationEstimate = EstimateDuration(text, g.cfg.SpeakingRateWPM)
	return summary, nil
}

// buildPrompt renders the structuring instruction for one transcript.
func buildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that analyzes meeting transcripts.\n")
	b.WriteString("Analyze the following meeting transcript and extract structured information.\n\n")
	b.WriteString("Return ONLY a valid JSON object with this exact structure, no other text:\n")
	b.WriteString(`{
  "summary": "2-3 sentence summary of the meeting",
  "action_items": [
    {"text": "the task as stated", "assignee": "person name or empty string", "due_date": "date mentioned or empty string", "priority": "high, medium or low"}
  ],
  "key_decisions": ["full sentence for each decision made"],
  "participants": ["names of people in the meeting"],
  "topics": ["main topics discussed"],
  "next_steps": ["planned follow-up work"]
}`)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}
