package config

import (
	"os"

	"github.com/modelmux/modelmux/llm"
)

// OpenAIConfig is the configuration section for the OpenAI provider.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`      // custom endpoint (default: official API)
	Organization string `yaml:"organization,omitempty"`  // organization ID
	Model        string `yaml:"model,omitempty"`         // default model name
}

func (c *OpenAIConfig) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("OPENAI_ORGANIZATION"); v != "" {
		c.Organization = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.Model = v
	}
}

func (c *OpenAIConfig) providerConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider:     llm.ProviderOpenAI,
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		Organization: c.Organization,
		Model:        c.Model,
	}
}
