// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/logo-studio/internal/llm"
)

// Defaults
const (
	DefaultProvider         = string(llm.ProviderAnthropic)
	DefaultExtractMaxTokens = 1024
	DefaultLogoMaxTokens    = 4096
	DefaultLogoCount        = 5
	DefaultPort             = 3000
	DefaultRequestTimeout   = 2 * time.Minute
)

// Config is the application configuration. It can be loaded from a JSON
// file; every field is optional there and missing values use defaults.
type Config struct {
	// Model provider
	Provider         string `json:"provider,omitempty" validate:"omitempty,oneof=anthropic gemini"`
	APIKey           string `json:"api_key,omitempty"`
	Model            string `json:"model,omitempty"` // overrides the provider default for both stages
	ExtractMaxTokens int64  `json:"extract_max_tokens,omitempty" validate:"gte=0"`
	LogoMaxTokens    int64  `json:"logo_max_tokens,omitempty" validate:"gte=0"`

	// Stages
	LogoCount          int  `json:"logo_count,omitempty" validate:"gte=0,lte=20"`
	BalancedExtraction bool `json:"balanced_extraction,omitempty"`

	// Server
	Port           int      `json:"port,omitempty" validate:"gte=0,lte=65535"`
	RequestTimeout Duration `json:"request_timeout,omitempty"`
	StaticDir      string   `json:"static_dir,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Duration is a time.Duration that reads "90s" style strings from JSON
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string or a number of seconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds")
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a Go duration string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Provider:         DefaultProvider,
		ExtractMaxTokens: DefaultExtractMaxTokens,
		LogoMaxTokens:    DefaultLogoMaxTokens,
		LogoCount:        DefaultLogoCount,
		Port:             DefaultPort,
		RequestTimeout:   Duration(DefaultRequestTimeout),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Bools cannot tell unset from false and are never merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.StaticDir == "" {
		result.StaticDir = defaults.StaticDir
	}

	if result.ExtractMaxTokens == 0 {
		result.ExtractMaxTokens = defaults.ExtractMaxTokens
	}
	if result.LogoMaxTokens == 0 {
		result.LogoMaxTokens = defaults.LogoMaxTokens
	}
	if result.LogoCount == 0 {
		result.LogoCount = defaults.LogoCount
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}

	return result
}

// ApplyEnv overlays environment variables onto the configuration. Set
// variables win over file values; malformed numbers are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("LLM_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.Model = v
	}
	c.ApplyEnvAPIKey(getenv)
	if v, err := strconv.Atoi(getenv("PORT")); err == nil {
		c.Port = v
	}
	if v := getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v, err := strconv.ParseBool(getenv("BALANCED_EXTRACTION")); err == nil {
		c.BalancedExtraction = v
	}
	if v, err := time.ParseDuration(getenv("REQUEST_TIMEOUT")); err == nil {
		c.RequestTimeout = Duration(v)
	}
}

// ApplyEnvAPIKey sets the API key from the environment variable of the
// current provider, when that variable is set.
func (c *Config) ApplyEnvAPIKey(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := apiKeyFromEnv(c.Provider, getenv); key != "" {
		c.APIKey = key
	}
}

// SwitchProvider selects provider and re-reads the API key for it. A key
// resolved for a different provider is dropped rather than sent to the new one.
func (c *Config) SwitchProvider(provider string, getenv func(string) string) {
	provider = strings.ToLower(provider)
	if provider == c.Provider {
		return
	}
	c.Provider = provider
	c.APIKey = ""
	c.ApplyEnvAPIKey(getenv)
}

// apiKeyFromEnv reads the key of the selected provider. CLAUDE_API_KEY wins
// over the SDK's ANTHROPIC_API_KEY.
func apiKeyFromEnv(provider string, getenv func(string) string) string {
	if provider == string(llm.ProviderGemini) {
		return getenv("GEMINI_API_KEY")
	}
	if key := getenv("CLAUDE_API_KEY"); key != "" {
		return key
	}
	return getenv("ANTHROPIC_API_KEY")
}

// Validate checks that the configuration has valid values.
// It does not require an API key: commands that call the model check that.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return fmt.Errorf("config error: '%s' failed '%s' (value %v)", jsonName(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("config error: 'request_timeout' must be non-negative")
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: static directory not found: %s", c.StaticDir)
		}
	}

	return nil
}

// LLMConfig builds the model client configuration
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(llm.Provider(c.Provider))
	if c.Model != "" {
		cfg = cfg.WithModel(c.Model)
	}
	if c.ExtractMaxTokens > 0 {
		cfg = cfg.WithMaxTokens(llm.TierStandard, c.ExtractMaxTokens)
	}
	if c.LogoMaxTokens > 0 {
		cfg = cfg.WithMaxTokens(llm.TierAdvanced, c.LogoMaxTokens)
	}
	return cfg
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout)
}

var jsonNames = map[string]string{
	"Provider":         "provider",
	"ExtractMaxTokens": "extract_max_tokens",
	"LogoMaxTokens":    "logo_max_tokens",
	"LogoCount":        "logo_count",
	"Port":             "port",
}

func jsonName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return field
}
