package extraction

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// stubCompleter returns a canned response or error.
type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

func TestPipeline_HeuristicPath(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil, nil)

	result, err := p.Process(context.Background(), "John will send the report by Friday. Sarah decided to use PostgreSQL.", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != MethodHeuristic {
		t.Errorf("method: got %q", result.Method)
	}
	if result.Warning != "" {
		t.Errorf("unexpected warning: %q", result.Warning)
	}

	if len(result.Summary.ActionItems) != 1 {
		t.Fatalf("expected 1 action item, got %v", result.Summary.ActionItems)
	}
	item := result.Summary.ActionItems[0]
	if item.Assignee != "John" || !strings.Contains(item.DueDate, "Friday") {
		t.Errorf("action item fields: %+v", item)
	}

	if len(result.Summary.KeyDecisions) != 1 || !strings.Contains(result.Summary.KeyDecisions[0], "PostgreSQL") {
		t.Errorf("decisions: %v", result.Summary.KeyDecisions)
	}

	if len(result.Requirements) != 2 {
		t.Fatalf("expected 2 requirements, got %v", result.Requirements)
	}
	if result.Requirements[0].ID != "REQ-001" || result.Requirements[1].ID != "REQ-002" {
		t.Errorf("ids not sequential: %v", result.Requirements)
	}
}

func TestPipeline_EmptyInput(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil, nil)

	_, err := p.Process(context.Background(), "", true)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := entities.ExtractionKindOf(err); kind != entities.ExtractionKindEmptyInput {
		t.Fatalf("expected empty_input, got %q", kind)
	}
}

func TestPipeline_GenerativeSuccess(t *testing.T) {
	completer := &stubCompleter{response: `{"summary": "Planned the rollout.", "action_items": [{"text": "Ship it", "priority": "high"}]}`}
	gen := NewGenerativeExtractor(completer, DefaultConfig())
	p := NewPipeline(DefaultConfig(), gen, nil)

	result, err := p.Process(context.Background(), "We talked about shipping.", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != MethodGenerative {
		t.Errorf("method: got %q", result.Method)
	}
	if result.Warning != "" {
		t.Errorf("unexpected warning: %q", result.Warning)
	}
	if result.Summary.Summary != "Planned the rollout." {
		t.Errorf("summary: got %q", result.Summary.Summary)
	}
	if result.Summary.DurationEstimate == "" {
		t.Error("duration estimate must be computed locally")
	}
	if len(result.Requirements) != 1 || result.Requirements[0].ID != "REQ-001" {
		t.Errorf("requirements: %v", result.Requirements)
	}
}

func TestPipeline_FallbackOnServiceError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}
	gen := NewGenerativeExtractor(completer, DefaultConfig())
	p := NewPipeline(DefaultConfig(), gen, nil)

	text := "John will send the report by Friday."
	result, err := p.Process(context.Background(), text, true)
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if result.Method != MethodHeuristic {
		t.Errorf("method: got %q", result.Method)
	}
	if result.Warning == "" {
		t.Error("expected a fallback warning")
	}

	// degraded output must match a pure heuristic run
	direct, err := NewPipeline(DefaultConfig(), nil, nil).Process(context.Background(), text, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Summary, direct.Summary) {
		t.Error("fallback summary differs from heuristic summary")
	}
	if !reflect.DeepEqual(result.Requirements, direct.Requirements) {
		t.Error("fallback requirements differ from heuristic requirements")
	}
}

func TestPipeline_FallbackOnMalformedOutput(t *testing.T) {
	completer := &stubCompleter{response: "not json at all"}
	gen := NewGenerativeExtractor(completer, DefaultConfig())
	p := NewPipeline(DefaultConfig(), gen, nil)

	result, err := p.Process(context.Background(), "John will send the report.", true)
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if result.Method != MethodHeuristic {
		t.Errorf("method: got %q", result.Method)
	}
	if !strings.Contains(result.Warning, "malformed") {
		t.Errorf("warning should mention malformed output: %q", result.Warning)
	}
}

func TestPipeline_GenerativeIgnoredWhenNotRequested(t *testing.T) {
	completer := &stubCompleter{err: errors.New("must not be called")}
	gen := NewGenerativeExtractor(completer, DefaultConfig())
	p := NewPipeline(DefaultConfig(), gen, nil)

	result, err := p.Process(context.Background(), "Sarah will review the docs.", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != MethodHeuristic || result.Warning != "" {
		t.Errorf("generative path used despite useGenerative=false: %+v", result)
	}
}
