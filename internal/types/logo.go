package types

import "strings"

// DesignType is the kind of logo design
type DesignType string

// Design types accepted from the model
const (
	DesignWordmark  DesignType = "wordmark"
	DesignPictorial DesignType = "pictorial"
	DesignAbstract  DesignType = "abstract"
)

// ParseDesignType normalizes s and reports whether it names a known design type
func ParseDesignType(s string) (DesignType, bool) {
	switch d := DesignType(strings.ToLower(strings.TrimSpace(s))); d {
	case DesignWordmark, DesignPictorial, DesignAbstract:
		return d, true
	default:
		return "", false
	}
}

// LogoRecord is one generated design. Markup is SVG, black on white or
// transparent by contract.
type LogoRecord struct {
	DesignType DesignType `json:"type"`
	Markup     string     `json:"svg"`
	Rationale  string     `json:"rationale"`
}

// LogoSet is the ordered result of one generation request. The position of a
// record is its download index.
type LogoSet struct {
	Logos []LogoRecord `json:"logos"`
}

// Len returns the number of records
func (s *LogoSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Logos)
}

// At returns the record at index and whether it exists
func (s *LogoSet) At(index int) (LogoRecord, bool) {
	if s == nil || index < 0 || index >= len(s.Logos) {
		return LogoRecord{}, false
	}
	return s.Logos[index], true
}
