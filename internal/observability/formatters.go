// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/rendering"
	"github.com/jonathan/logo-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// PrintTranscript outputs where a transcript came from and how long it is
func (p *Printer) PrintTranscript(transcript string, meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:  %s (%s)\n", meta.Source, meta.Format))
	sb.WriteString(fmt.Sprintf("Length:  %d chars\n", meta.Chars))
	sb.WriteString(fmt.Sprintf("SHA256:  %s\n", meta.Hash[:min(len(meta.Hash), 16)]))

	if first, _, _ := strings.Cut(transcript, "\n"); first != "" {
		sb.WriteString(fmt.Sprintf("\n%s", first))
	}

	p.printBox("TRANSCRIPT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBrandProfile outputs a human-readable summary of an extracted profile
func (p *Printer) PrintBrandProfile(profile *types.BrandProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", orDash(profile.CompanyName)))
	sb.WriteString(fmt.Sprintf("Industry:  %s\n", orDash(profile.Industry)))
	sb.WriteString(fmt.Sprintf("Tone:      %s\n", orDash(profile.Tone)))
	sb.WriteString(fmt.Sprintf("Audience:  %s\n", orDash(profile.TargetUsers)))

	writeList(&sb, "Values", profile.Values)
	writeList(&sb, "Competitors", profile.Competitors)

	p.printBox("BRAND PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLogoSet outputs one line per generated design with its download name
func (p *Printer) PrintLogoSet(set *types.LogoSet) {
	if set.Len() == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Designs generated: %d\n\n", set.Len()))

	for i, logo := range set.Logos {
		sb.WriteString(fmt.Sprintf("#%d  %-10s %s\n", i+1, logo.DesignType, rendering.Filename(logo, i)))
		if logo.Rationale != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", logo.Rationale))
		}
	}

	p.printBox("LOGO SET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWrittenFiles lists the files written to disk
func (p *Printer) PrintWrittenFiles(paths []string) {
	if len(paths) == 0 {
		return
	}
	p.printBox("FILES WRITTEN", strings.Join(paths, "\n"))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
