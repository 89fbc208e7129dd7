package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/config"
)

// newConfigCommand returns a command carrying the root persistent flags,
// with the flag globals reset.
func newConfigCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&configPath, "config", "", "")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "")
	cmd.Flags().StringVar(&providerArg, "provider", "", "")
	cmd.Flags().StringVar(&modelArg, "model", "", "")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "")
	t.Cleanup(func() {
		configPath, apiKeyFlag, providerArg, modelArg, verbose = "", "", "", "", false
	})
	return cmd
}

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cmd := newConfigCommand(t)

	cfg, err := loadConfig(cmd, envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultProvider, cfg.Provider)
	assert.Equal(t, config.DefaultLogoCount, cfg.LogoCount)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, config.DefaultRequestTimeout, cfg.Timeout())
	assert.Empty(t, cfg.APIKey)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"provider": "anthropic",
		"model": "file-model",
		"logo_count": 3,
		"port": 8081
	}`), 0644))

	cmd := newConfigCommand(t)
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("model", "flag-model"))

	cfg, err := loadConfig(cmd, envOf(map[string]string{
		"PORT":           "9090",
		"LLM_MODEL":      "env-model",
		"CLAUDE_API_KEY": "env-key",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.LogoCount, "file value over default")
	assert.Equal(t, 9090, cfg.Port, "environment over file")
	assert.Equal(t, "flag-model", cfg.Model, "flag over environment")
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadConfig_APIKeyFlagWins(t *testing.T) {
	cmd := newConfigCommand(t)
	require.NoError(t, cmd.Flags().Set("api-key", "flag-key"))

	cfg, err := loadConfig(cmd, envOf(map[string]string{"CLAUDE_API_KEY": "env-key"}))
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey)
}

func TestLoadConfig_ProviderFlagSelectsItsKey(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "only gemini key", env: map[string]string{"GEMINI_API_KEY": "gem-key"}, want: "gem-key"},
		{name: "both keys", env: map[string]string{"GEMINI_API_KEY": "gem-key", "CLAUDE_API_KEY": "claude-key"}, want: "gem-key"},
		{name: "only claude key", env: map[string]string{"CLAUDE_API_KEY": "claude-key"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newConfigCommand(t)
			require.NoError(t, cmd.Flags().Set("provider", "gemini"))

			cfg, err := loadConfig(cmd, envOf(tt.env))
			require.NoError(t, err)
			assert.Equal(t, "gemini", cfg.Provider)
			assert.Equal(t, tt.want, cfg.APIKey)
		})
	}
}

func TestLoadConfig_APIKeyFlagWinsAfterProviderSwitch(t *testing.T) {
	cmd := newConfigCommand(t)
	require.NoError(t, cmd.Flags().Set("provider", "gemini"))
	require.NoError(t, cmd.Flags().Set("api-key", "flag-key"))

	cfg, err := loadConfig(cmd, envOf(map[string]string{"GEMINI_API_KEY": "gem-key"}))
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey)
}

func TestLoadConfig_InvalidProvider(t *testing.T) {
	cmd := newConfigCommand(t)
	require.NoError(t, cmd.Flags().Set("provider", "openai"))

	_, err := loadConfig(cmd, envOf(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cmd := newConfigCommand(t)
	require.NoError(t, cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.json")))

	_, err := loadConfig(cmd, envOf(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestNewPipeline_RequiresAPIKey(t *testing.T) {
	cfg := config.Defaults()

	_, _, err := newPipeline(context.Background(), &cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key")
}

func TestWithTimeout(t *testing.T) {
	cfg := config.Defaults()
	cfg.RequestTimeout = config.Duration(time.Minute)

	ctx, cancel := withTimeout(context.Background(), &cfg)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	cfg.RequestTimeout = 0
	ctx, cancel = withTimeout(context.Background(), &cfg)
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = newLogger(false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}
