package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: "   \n  \n  ", expected: ""},
		{name: "collapses inner spaces", input: "We   are    Acme", expected: "We are Acme"},
		{name: "line endings", input: "one\r\ntwo\rthree", expected: "one\ntwo\nthree"},
		{name: "excess blank lines", input: "Intro\n\n\n\n\nMore", expected: "Intro\n\nMore"},
		{name: "heading loses indent", input: "   # Company notes", expected: "# Company notes"},
		{name: "bullets keep indent", input: "Values:\n  - speed\n  * trust", expected: "Values:\n  - speed\n  * trust"},
		{name: "unicode survives", input: "Café  Zoë 🚀", expected: "Café Zoë 🚀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Acme   ships\n\n\nfreight   fast"
	assert.Equal(t, CleanText(input), CleanText(input))
}
