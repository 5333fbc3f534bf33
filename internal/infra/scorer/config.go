// Package scorer provides LLM-backed relevance scoring implementations.
// It includes adapters for OpenAI and Claude (Anthropic) APIs with
// reliability patterns, plus a no-op scorer for runs without credentials.
package scorer

import (
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"cfpscout/pkg/config"
)

// Supported scoring providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

// Config holds configuration parameters for a scoring provider.
// Configuration is loaded from environment variables with fallback to defaults.
type Config struct {
	// Provider selects the scoring backend: openai, claude, or none.
	Provider string

	// APIKey authenticates against the provider. Required unless the
	// provider is none; a missing key is a setup failure, detected before
	// any network activity.
	APIKey string

	// Model is the provider model identifier to use for scoring.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single scoring API call.
	Timeout time.Duration

	// MaxPromptChars caps the conference description included in the
	// prompt, in runes.
	MaxPromptChars int
}

// LoadConfig loads scorer configuration for the given provider from
// environment variables. It fails closed: a provider that needs credentials
// without a key in the environment returns an error.
//
// Environment variables:
//   - OPENAI_API_KEY / ANTHROPIC_API_KEY: Provider credential
//   - SCORER_MODEL: Model override (defaults per provider)
//   - SCORER_MAX_TOKENS: Response token cap (default: 1024)
//   - SCORER_TIMEOUT: Per-call timeout (default: 60s)
//   - SCORER_MAX_PROMPT_CHARS: Description budget in the prompt (default: 4000)
func LoadConfig(provider string) (*Config, error) {
	cfg := &Config{
		Provider:       provider,
		MaxTokens:      config.GetEnvInt("SCORER_MAX_TOKENS", 1024),
		Timeout:        config.GetEnvDuration("SCORER_TIMEOUT", 60*time.Second),
		MaxPromptChars: config.GetEnvInt("SCORER_MAX_PROMPT_CHARS", 4000),
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Model = config.GetEnvString("SCORER_MODEL", "gpt-4o")
	case ProviderClaude:
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		cfg.Model = config.GetEnvString("SCORER_MODEL", string(anthropic.ModelClaudeSonnet4_5_20250929))
	case ProviderNone:
		// No credentials or model needed.
	default:
		return nil, fmt.Errorf("unknown scoring provider %q (must be %s, %s, or %s)",
			provider, ProviderOpenAI, ProviderClaude, ProviderNone)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scorer configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Provider == ProviderNone {
		return nil
	}

	if c.APIKey == "" {
		envVar := "OPENAI_API_KEY"
		if c.Provider == ProviderClaude {
			envVar = "ANTHROPIC_API_KEY"
		}
		return fmt.Errorf("missing API key: set %s", envVar)
	}

	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.MaxPromptChars <= 0 {
		return fmt.Errorf("max prompt chars must be positive, got %d", c.MaxPromptChars)
	}

	return nil
}
