// Package llm - util.go recovers structured objects from model replies.
package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// jsonFence matches the first ```json fenced block. Models often wrap JSON in
// one even when told not to, and may surround it with commentary.
var jsonFence = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// Extractor recovers a single JSON object from a free-form model reply.
//
// The zero value takes the first ```json fence if present, slices from the
// first '{' to the last '}' and parses that.
// With Balanced set, a slice that fails to parse is retried with the first
// balanced, string-aware object found in the working text.
type Extractor struct {
	Balanced bool
}

// ExtractJSON recovers an object with the zero Extractor.
func ExtractJSON(raw string) (map[string]any, error) {
	return Extractor{}.Extract(raw)
}

// Extract recovers an object from raw. It fails with *ExtractionError.
func (x Extractor) Extract(raw string) (map[string]any, error) {
	working := fencedContent(raw)

	start := strings.Index(working, "{")
	end := strings.LastIndex(working, "}")
	if start < 0 || end < start {
		return nil, &ExtractionError{Message: MsgNoObject}
	}

	obj, err := decodeObject(working[start : end+1])
	if err == nil {
		return obj, nil
	}

	if x.Balanced {
		if obj, ok := firstBalancedObject(working); ok {
			return obj, nil
		}
	}

	return nil, &ExtractionError{Message: MsgMalformedObject, Cause: err}
}

// fencedContent returns the body of the first json fence, or text unchanged
func fencedContent(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

func decodeObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// firstBalancedObject scans every '{' in order and returns the first
// brace-balanced span that parses. Braces inside JSON strings are ignored.
func firstBalancedObject(text string) (map[string]any, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		span := balancedSpan(text[i:])
		if span == "" {
			continue
		}
		if obj, err := decodeObject(span); err == nil {
			return obj, true
		}
	}
	return nil, false
}

// balancedSpan returns the prefix of s (which starts with '{') up to the
// matching close brace, or "" when s is unbalanced.
func balancedSpan(s string) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
