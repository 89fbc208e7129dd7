package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/logo-studio/internal/observability"
)

var (
	generateProfile string
	generateOutDir  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate SVG logos from a brand profile JSON file",
	Long: `Read a brand profile (as written by "extract") and write one SVG file per
generated design to --out-dir, named logo-<n>-<type>.svg.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateProfile, "profile", "p", "", "Path to brand profile JSON (required)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out-dir", "o", "logos", "Output directory for SVG files")
	_ = generateCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}

	profile, err := readProfile(generateProfile)
	if err != nil {
		return err
	}

	p, closeClient, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	ctx, cancel := withTimeout(cmd.Context(), cfg)
	defer cancel()

	set, err := p.GenerateLogos(ctx, profile)
	if err != nil {
		return fmt.Errorf("logo generation failed: %w", err)
	}

	paths, err := writeArtifacts(cmd.Context(), generateOutDir, set.Len(), setPackager(set))
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintLogoSet(set)
	}
	printer.PrintWrittenFiles(paths)
	return nil
}
