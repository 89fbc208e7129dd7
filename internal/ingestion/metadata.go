package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source formats of a transcript
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Metadata describes where a transcript came from
type Metadata struct {
	Source    string `json:"source"`
	Format    string `json:"format"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the transcript
	Chars     int    `json:"chars"`
}

// NewMetadata creates metadata for transcript stamped with the current time
func NewMetadata(transcript, source, format string) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(transcript),
		Chars:     len([]rune(transcript)),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
