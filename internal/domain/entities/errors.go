package entities

import (
	"errors"
	"fmt"
)

// ExtractionKind classifies extraction pipeline failures.
type ExtractionKind string

const (
	// ExtractionKindEmptyInput means there was nothing to process. It is
	// fatal to the call and never retried.
	ExtractionKindEmptyInput ExtractionKind = "empty_input"
	// ExtractionKindMalformedModelOutput means the generative model returned
	// JSON that could not be parsed or validated. The caller falls back to
	// the heuristic pipeline.
	ExtractionKindMalformedModelOutput ExtractionKind = "malformed_model_output"
	// ExtractionKindServiceUnavailable means the generative model call
	// itself failed (timeout, auth, quota). The caller falls back to the
	// heuristic pipeline.
	ExtractionKindServiceUnavailable ExtractionKind = "service_unavailable"
)

// ExtractionError is the typed error returned by the extraction pipeline.
type ExtractionError struct {
	Kind ExtractionKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Kind)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError wraps err with an extraction failure kind.
func NewExtractionError(kind ExtractionKind, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Err: err}
}

// ExtractionKindOf returns the extraction kind of err, or "" when err is not
// an ExtractionError.
func ExtractionKindOf(err error) ExtractionKind {
	var xerr *ExtractionError
	if errors.As(err, &xerr) {
		return xerr.Kind
	}
	return ""
}

// Domain errors
var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrJobNotFound     = errors.New("transcription job not found")
	ErrEmptyTranscript = errors.New("transcript text is empty")
)
