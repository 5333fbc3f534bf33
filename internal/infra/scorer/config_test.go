package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_OpenAIDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(ProviderOpenAI)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 4000, cfg.MaxPromptChars)
}

func TestLoadConfig_ClaudeReadsAnthropicKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("SCORER_MODEL", "claude-test-model")
	t.Setenv("SCORER_MAX_TOKENS", "256")

	cfg, err := LoadConfig(ProviderClaude)
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-test", cfg.APIKey)
	assert.Equal(t, "claude-test-model", cfg.Model)
	assert.Equal(t, 256, cfg.MaxTokens)
}

func TestLoadConfig_MissingKeyFailsClosed(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig(ProviderOpenAI)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadConfig_NoneNeedsNoCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := LoadConfig(ProviderNone)
	require.NoError(t, err)
	assert.Equal(t, ProviderNone, cfg.Provider)
}

func TestLoadConfig_UnknownProvider(t *testing.T) {
	cfg, err := LoadConfig("gemini")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "unknown scoring provider")
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Provider:       ProviderOpenAI,
			APIKey:         "sk-test",
			Model:          "gpt-4o",
			MaxTokens:      1024,
			Timeout:        time.Minute,
			MaxPromptChars: 4000,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.Model = "" },
			wantErr: "model cannot be empty",
		},
		{
			name:    "non-positive max tokens",
			mutate:  func(c *Config) { c.MaxTokens = 0 },
			wantErr: "max tokens must be positive",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: "timeout must be positive",
		},
		{
			name:    "non-positive prompt budget",
			mutate:  func(c *Config) { c.MaxPromptChars = -1 },
			wantErr: "max prompt chars must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
