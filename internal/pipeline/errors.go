// Package pipeline runs the two model-backed stages: transcript to brand
// profile, and brand profile to logo set.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/logo-studio/internal/llm"
)

// ValidationError represents a caller-side precondition that was not met
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Messages of the validation errors raised by the stages
const (
	MsgEmptyTranscript = "transcript is empty"
	MsgMissingProfile  = "missing profile"
	MsgEmptyLogoSet    = "empty logo set"
)

// ErrorKind classifies a stage failure for callers that must tell
// "nothing to show" from "try again" from "upstream rejected the request".
type ErrorKind string

// Error kinds
const (
	KindValidation ErrorKind = "validation"
	KindUpstream   ErrorKind = "upstream"
	KindExtraction ErrorKind = "extraction"
	KindUnknown    ErrorKind = "unknown"
)

// Kind returns the kind of err, or "" for a nil error
func Kind(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	var upstreamErr *llm.UpstreamError
	var extractionErr *llm.ExtractionError

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &upstreamErr):
		return KindUpstream
	case errors.As(err, &extractionErr):
		return KindExtraction
	default:
		return KindUnknown
	}
}
