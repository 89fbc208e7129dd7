package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/observability"
)

var (
	extractTranscript string
	extractOut        string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a brand profile from a transcript file",
	Long: `Read a transcript (plain text, or JSON with a "transcript" field) and write
the extracted brand profile as JSON to --out, or to stdout.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractTranscript, "transcript", "t", "", "Path to transcript file (required)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output path for profile JSON (default stdout)")
	_ = extractCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}

	transcript, meta, err := ingestion.LoadTranscript(extractTranscript)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}

	p, closeClient, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	ctx, cancel := withTimeout(cmd.Context(), cfg)
	defer cancel()

	profile, err := p.ExtractProfile(ctx, transcript)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintTranscript(transcript, meta)
		printer.PrintBrandProfile(profile)
	}

	return writeJSON(extractOut, profile)
}
