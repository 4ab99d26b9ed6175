package config

import (
	"os"

	"github.com/modelmux/modelmux/llm"
)

// GeminiConfig is the configuration section for the Gemini provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"` // default model name
}

func (c *GeminiConfig) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Model = v
	}
}

func (c *GeminiConfig) providerConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider: llm.ProviderGemini,
		APIKey:   c.APIKey,
		Model:    c.Model,
	}
}
