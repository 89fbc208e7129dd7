// Package llm provides centralized LLM configuration, provider clients, and
// recovery of structured data from free-form model replies.
package llm

// ModelTier represents the size of the request made to a model
type ModelTier string

const (
	// TierStandard is for profile extraction from a transcript
	TierStandard ModelTier = "standard"
	// TierAdvanced is for logo generation, which needs a much larger output budget
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderAnthropic is the Anthropic Messages API
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultAnthropicModel is the model identifier of the fixed request template.
const DefaultAnthropicModel = "claude-sonnet-4-5-20250929"

// Config holds the model configuration for the application
type Config struct {
	Provider  Provider
	Models    map[ModelTier]string
	MaxTokens map[ModelTier]int64
}

// DefaultConfig returns the default configuration (Anthropic)
func DefaultConfig() *Config {
	return DefaultAnthropicConfig()
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierStandard: DefaultAnthropicModel,
			TierAdvanced: DefaultAnthropicModel,
		},
		MaxTokens: map[ModelTier]int64{
			TierStandard: 1024,
			TierAdvanced: 4096,
		},
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		MaxTokens: map[ModelTier]int64{
			TierStandard: 1024,
			TierAdvanced: 4096,
		},
	}
}

// ConfigFor returns the default configuration for a provider name.
// Unknown names fall back to Anthropic.
func ConfigFor(provider Provider) *Config {
	if provider == ProviderGemini {
		return DefaultGeminiConfig()
	}
	return DefaultAnthropicConfig()
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return ""
}

// GetMaxTokens returns the output token budget for a tier, 1024 when unset
func (c *Config) GetMaxTokens(tier ModelTier) int64 {
	if n, ok := c.MaxTokens[tier]; ok && n > 0 {
		return n
	}
	return 1024
}

// WithModel returns a new Config using model for every tier
func (c *Config) WithModel(model string) *Config {
	out := c.clone()
	for tier := range out.Models {
		out.Models[tier] = model
	}
	return out
}

// WithMaxTokens returns a new Config with a specific token budget for a tier
func (c *Config) WithMaxTokens(tier ModelTier, n int64) *Config {
	out := c.clone()
	out.MaxTokens[tier] = n
	return out
}

func (c *Config) clone() *Config {
	out := &Config{
		Provider:  c.Provider,
		Models:    make(map[ModelTier]string, len(c.Models)),
		MaxTokens: make(map[ModelTier]int64, len(c.MaxTokens)),
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	for k, v := range c.MaxTokens {
		out.MaxTokens[k] = v
	}
	return out
}
