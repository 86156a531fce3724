package extraction

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// Extraction methods recorded on each result.
const (
	MethodHeuristic  = "heuristic"
	MethodGenerative = "generative"
)

// Extractor turns transcript text into a structured meeting summary.
type Extractor interface {
	Extract(ctx context.Context, text string) (*entities.MeetingSummary, error)
}

// Result is the full output of one pipeline run.
type Result struct {
	Summary      *entities.MeetingSummary `json:"summary"`
	Requirements []entities.Requirement   `json:"requirements"`
	Method       string                   `json:"method"`
	// Warning is set when the generative path failed and the heuristic
	// result was served instead. It never accompanies a hard error.
	Warning string `json:"warning,omitempty"`
}

// Pipeline orchestrates extraction. The generative extractor is tried
// first when configured; any failure there degrades silently to the
// heuristic extractor, noted in the result warning.
type Pipeline struct {
	cfg        Config
	heuristic  *HeuristicExtractor
	generative Extractor
	logger     *zap.Logger
}

// NewPipeline creates a pipeline. generative may be nil to run pure
// heuristics; logger may be nil.
func NewPipeline(cfg Config, generative Extractor, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &Pipeline{
		cfg:        cfg,
		heuristic:  NewHeuristicExtractor(cfg),
		generative: generative,
		logger:     logger,
	}
}

// Process extracts a structured summary and its derived requirements from
// text. useGenerative selects the model-backed path for this call; it is
// ignored when no generative extractor is configured. Only empty input is
// a hard failure.
func (p *Pipeline) Process(ctx context.Context, text string, useGenerative bool) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, entities.NewExtractionError(entities.ExtractionKindEmptyInput, entities.ErrEmptyTranscript)
	}

	result := &Result{Method: MethodHeuristic}

	var summary *entities.MeetingSummary
	if useGenerative && p.generative != nil {
		s, err := p.generative.Extract(ctx, text)
		if err != nil {
			result.Warning = fallbackWarning(err)
			p.logger.Warn("generative extraction failed, falling back to heuristics",
				zap.String("kind", string(entities.ExtractionKindOf(err))),
				zap.Error(err))
		} else {
			summary = s
			result.Method = MethodGenerative
		}
	}

	if summary == nil {
		s, err := p.heuristic.Extract(ctx, text)
		if err != nil {
			return nil, err
		}
		summary = s
	}

	// Pattern entities come from the heuristics regardless of which path
	// produced the summary.
	if len(summary.Entities) == 0 {
		summary.Entities = ExtractEntities(text)
	}
	if summary.DurationEstimate == "" {
		summary.DurationEstimate = EstimateDuration(text, p.cfg.SpeakingRateWPM)
	}

	result.Summary = summary
	result.Requirements = MapRequirements(summary, KeyPhrases(text, p.cfg.TopKPhrases))
	return result, nil
}

// fallbackWarning renders the user-visible note attached to a degraded
// result.
func fallbackWarning(err error) string {
	switch entities.ExtractionKindOf(err) {
	case entities.ExtractionKindMalformedModelOutput:
		return "model returned malformed output; heuristic extraction used instead"
	case entities.ExtractionKindServiceUnavailable:
		return "model service unavailable; heuristic extraction used instead"
	default:
		return "generative extraction failed; heuristic extraction used instead"
	}
}
