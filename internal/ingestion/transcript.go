package ingestion

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// JSONContentType is the declared type accepted for transcript uploads
const JSONContentType = "application/json"

// IsJSONFile reports whether a file declares itself as JSON by its content
// type or its name
func IsJSONFile(name, contentType string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == JSONContentType {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), ".json")
}

// ParseTranscriptFile extracts a transcript from an uploaded file. The file
// must declare itself as JSON. A non-empty string "transcript" field is used
// verbatim, otherwise the whole document is rendered as indented JSON.
func ParseTranscriptFile(name, contentType string, data []byte) (string, error) {
	if !IsJSONFile(name, contentType) {
		return "", &FileTypeError{Name: name, ContentType: contentType}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", &ParseError{Name: name, Cause: err}
	}

	if obj, ok := doc.(map[string]any); ok {
		if transcript, ok := obj["transcript"].(string); ok && transcript != "" {
			return transcript, nil
		}
	}

	rendered, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &ParseError{Name: name, Cause: err}
	}
	return string(rendered), nil
}

// LoadTranscript reads a transcript from disk. JSON files follow the upload
// rule of ParseTranscriptFile; anything else is read as plain text and
// cleaned.
func LoadTranscript(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	name := filepath.Base(path)
	if IsJSONFile(name, "") {
		transcript, err := ParseTranscriptFile(name, JSONContentType, content)
		if err != nil {
			return "", nil, err
		}
		return transcript, NewMetadata(transcript, path, FormatJSON), nil
	}

	transcript := CleanText(string(content))
	return transcript, NewMetadata(transcript, path, FormatText), nil
}
