// Package rendering turns generated logo records into downloadable SVG artifacts.
package rendering

import "fmt"

// MarkupError represents SVG markup that is not well-formed
type MarkupError struct {
	Message string
	Cause   error
}

func (e *MarkupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("markup error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("markup error: %s", e.Message)
}

func (e *MarkupError) Unwrap() error {
	return e.Cause
}

// PackageError represents a logo that cannot be packaged
type PackageError struct {
	Index   int
	Message string
	Cause   error
}

func (e *PackageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("package error for logo %d: %s: %v", e.Index, e.Message, e.Cause)
	}
	return fmt.Sprintf("package error for logo %d: %s", e.Index, e.Message)
}

func (e *PackageError) Unwrap() error {
	return e.Cause
}
