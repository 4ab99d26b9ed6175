package config

import (
	"os"

	"github.com/modelmux/modelmux/llm"
)

// AnthropicConfig is the configuration section for the Anthropic provider.
type AnthropicConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"` // default model name
}

func (c *AnthropicConfig) applyEnv() {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
		c.Model = v
	}
}

func (c *AnthropicConfig) providerConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider: llm.ProviderAnthropic,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Model:    c.Model,
	}
}
