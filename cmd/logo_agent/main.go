// Package main provides the entry point for the logo studio CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath  string
	apiKeyFlag  string
	providerArg string
	modelArg    string
	verbose     bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "logo_agent",
	Short: "Brand profile extraction and logo generation",
	Long: `logo_agent reads a company transcript, extracts a brand profile with a
language model, lets you revise it, and generates black-on-white SVG logo
designs from it. Run "serve" for the HTTP API or use the commands directly.

Configuration is read from --config (JSON), then the environment (.env is
loaded automatically), then flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Model provider API key (defaults to CLAUDE_API_KEY / ANTHROPIC_API_KEY or GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&providerArg, "provider", "", "Model provider: anthropic or gemini")
	rootCmd.PersistentFlags().StringVar(&modelArg, "model", "", "Model identifier for both stages")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// newLogger builds the production logger, at debug level when verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
