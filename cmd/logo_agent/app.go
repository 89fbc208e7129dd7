package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/config"
	"github.com/jonathan/logo-studio/internal/llm"
	"github.com/jonathan/logo-studio/internal/metrics"
	"github.com/jonathan/logo-studio/internal/pipeline"
)

// loadConfig resolves configuration in order: defaults, --config file,
// environment, then explicitly set flags. The API key always belongs to the
// final provider; --api-key overrides it.
func loadConfig(cmd *cobra.Command, getenv func(string) string) (*config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv(getenv)

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.SwitchProvider(providerArg, getenv)
	}
	if flags.Changed("model") {
		cfg.Model = modelArg
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKeyFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newPipeline creates the model client and the stage pipeline. The returned
// close function releases the client.
func newPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pipeline.Pipeline, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("no API key: set CLAUDE_API_KEY (or GEMINI_API_KEY with --provider gemini) or pass --api-key")
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	stageMetrics, err := metrics.NewStageMetrics()
	if err != nil {
		log.Warn("stage metrics disabled", zap.Error(err))
		stageMetrics = nil
	}

	p := pipeline.New(client,
		pipeline.WithLogger(log),
		pipeline.WithMetrics(stageMetrics),
		pipeline.WithLogoCount(cfg.LogoCount),
		pipeline.WithBalancedExtraction(cfg.BalancedExtraction),
	)

	log.Debug("pipeline ready",
		zap.String("provider", cfg.Provider),
		zap.String("extract_model", client.GetModel(llm.TierStandard)),
		zap.String("logo_model", client.GetModel(llm.TierAdvanced)))

	return p, func() { _ = client.Close() }, nil
}

// withTimeout bounds one stage call by the configured request timeout
func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout() > 0 {
		return context.WithTimeout(ctx, cfg.Timeout())
	}
	return context.WithCancel(ctx)
}

func getenv(key string) string {
	return os.Getenv(key)
}
