package config

import (
	"os"

	"github.com/modelmux/modelmux/llm"
)

// OllamaConfig is the configuration section for the Ollama provider.
type OllamaConfig struct {
	Host  string `yaml:"host,omitempty"`  // Ollama host (default: "http://localhost:11434")
	Model string `yaml:"model,omitempty"` // default model name
}

func (c *OllamaConfig) applyEnv() {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.Model = v
	}
}

func (c *OllamaConfig) providerConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider: llm.ProviderOllama,
		Host:     c.Host,
		Model:    c.Model,
	}
}
