package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/types"
)

func TestPrintBrandProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBrandProfile(&types.BrandProfile{
		CompanyName: "Acme Corp",
		Industry:    "logistics",
		Values:      []string{"speed", "trust"},
		Competitors: []string{"Globex"},
	})
	output := buf.String()

	assert.Contains(t, output, "BRAND PROFILE")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "logistics")
	assert.Contains(t, output, "• speed")
	assert.Contains(t, output, "Competitors:")
	assert.Contains(t, output, "Tone:      -")
}

func TestPrintBrandProfile_ManyValues(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBrandProfile(&types.BrandProfile{
		Values: []string{"a", "b", "c", "d", "e", "f", "g"},
	})

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintBrandProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBrandProfile(nil)
	assert.Empty(t, buf.String())
}

func TestPrintLogoSet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLogoSet(&types.LogoSet{Logos: []types.LogoRecord{
		{DesignType: types.DesignWordmark, Markup: "<svg/>", Rationale: "bold letters"},
		{DesignType: types.DesignAbstract, Markup: "<svg/>"},
	}})
	output := buf.String()

	assert.Contains(t, output, "LOGO SET")
	assert.Contains(t, output, "Designs generated: 2")
	assert.Contains(t, output, "logo-1-wordmark.svg")
	assert.Contains(t, output, "logo-2-abstract.svg")
	assert.Contains(t, output, "bold letters")
}

func TestPrintLogoSet_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintLogoSet(nil)
	p.PrintLogoSet(&types.LogoSet{})

	assert.Empty(t, buf.String())
}

func TestPrintTranscript(t *testing.T) {
	var buf bytes.Buffer
	transcript := "We are Acme Corp.\nWe ship freight."

	NewPrinter(&buf).PrintTranscript(transcript, ingestion.NewMetadata(transcript, "call.txt", ingestion.FormatText))
	output := buf.String()

	assert.Contains(t, output, "TRANSCRIPT")
	assert.Contains(t, output, "call.txt (text)")
	assert.Contains(t, output, "We are Acme Corp.")
	assert.NotContains(t, output, "We ship freight.")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintWrittenFiles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintWrittenFiles(nil)
	assert.Empty(t, buf.String())

	p.PrintWrittenFiles([]string{"out/logo-1-wordmark.svg"})
	assert.Contains(t, buf.String(), "out/logo-1-wordmark.svg")
}
