package llm

import "fmt"

// UpstreamError represents a failed call to the model provider: the provider
// was unreachable or answered with a non-success status.
type UpstreamError struct {
	StatusCode int // 0 when no HTTP status was received
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("upstream error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("upstream error: %s", msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ExtractionError represents a successful reply from which no well-formed
// object could be recovered.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

const (
	// MsgNoObject is reported when the reply has no brace-bounded region
	MsgNoObject = "no object found"
	// MsgMalformedObject is reported when the brace-bounded region does not parse
	MsgMalformedObject = "malformed object"
)
