package llmparser

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrMissingAPIKey = errors.New("API key is required for AI extraction")
	ErrNoContent     = errors.New("response carries no text content")
	ErrMissingSteps  = errors.New("response has no steps array")
)

// Stage names the point of the extraction pipeline that failed.
type Stage string

const (
	StageRequest  Stage = "request"  // Building or sending the request
	StageResponse Stage = "response" // Non-success status or malformed envelope
	StageDecode   Stage = "decode"   // Model output is not valid JSON
	StageSchema   Stage = "schema"   // Model output lacks required fields
)

// ExtractionError reports a failed AI extraction. Callers surface it to the
// user; nothing is retried.
type ExtractionError struct {
	Stage Stage
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("AI extraction failed (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionError(stage Stage, err error) *ExtractionError {
	return &ExtractionError{Stage: stage, Err: err}
}
