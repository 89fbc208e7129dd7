package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/server"
	"github.com/jonathan/logo-studio/internal/server/ratelimit"
)

var (
	servePort      int
	serveStaticDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing POST /api/extract, POST /api/generate-logos,
POST /api/run/stream (both stages as Server-Sent Events), POST /api/transcripts,
POST /api/profile/edit and POST /api/logos/package.
With --static-dir the directory is served at /.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 3000, or PORT)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static-dir", "", "Directory of front-end files to serve at /")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("static-dir") {
		cfg.StaticDir = serveStaticDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	stages, closeClient, err := newPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	srv := server.New(server.Config{
		Port:           cfg.Port,
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.Timeout(),
		RateLimit:      ratelimit.LoadConfig(),
	}, stages, logger)

	logger.Info("configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.Int("port", cfg.Port),
		zap.Bool("balanced_extraction", cfg.BalancedExtraction))

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
