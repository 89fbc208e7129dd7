package ingestion

import "fmt"

// FileTypeError is returned for a file that does not declare itself as JSON
type FileTypeError struct {
	Name        string
	ContentType string
}

func (e *FileTypeError) Error() string {
	return fmt.Sprintf("unsupported file %q (type %q): expected a .json file", e.Name, e.ContentType)
}

// ParseError is returned when a JSON transcript file cannot be decoded
type ParseError struct {
	Name  string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse %q: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("failed to parse %q", e.Name)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
