// Package config loads modelmux configuration from a YAML file and the
// environment. File values are merged over built-in defaults; environment
// variables override both, so credentials never have to live on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/modelmux/modelmux/client"
	"github.com/modelmux/modelmux/llm"
	"github.com/modelmux/modelmux/retry"
)

// Config is the on-disk configuration for modelmux.
type Config struct {
	// Provider is the primary provider tag: "openai", "anthropic",
	// "gemini", or "ollama".
	Provider string `yaml:"provider,omitempty"`

	OpenAI    OpenAIConfig    `yaml:"openai,omitempty"`
	Anthropic AnthropicConfig `yaml:"anthropic,omitempty"`
	Gemini    GeminiConfig    `yaml:"gemini,omitempty"`
	Ollama    OllamaConfig    `yaml:"ollama,omitempty"`

	// Fallbacks name providers tried after the primary fails, lowest
	// priority value first. Credentials come from the provider sections
	// above.
	Fallbacks []Fallback `yaml:"fallbacks,omitempty"`

	Retry *RetryConfig `yaml:"retry,omitempty"`

	// Timeout bounds each provider attempt, in seconds. Zero disables the
	// per-attempt timeout.
	Timeout int `yaml:"timeout,omitempty"`

	Debug bool `yaml:"debug,omitempty"`
}

// Fallback names one fallback provider and its position in the chain.
type Fallback struct {
	Provider string `yaml:"provider"`
	Priority int    `yaml:"priority"`
	Model    string `yaml:"model,omitempty"` // overrides the provider section's model
}

// RetryConfig mirrors retry.Config with YAML-friendly millisecond fields.
type RetryConfig struct {
	MaxRetries     int     `yaml:"max_retries,omitempty"`
	InitialDelayMS int     `yaml:"initial_delay_ms,omitempty"`
	MaxDelayMS     int     `yaml:"max_delay_ms,omitempty"`
	Multiplier     float64 `yaml:"multiplier,omitempty"`
}

func defaults() Config {
	return Config{
		Provider: llm.ProviderOpenAI,
		Ollama:   OllamaConfig{Host: "http://localhost:11434"},
	}
}

// DefaultPath returns the default config file path.
// Can be overridden via the MODELMUX_CONFIG_PATH environment variable.
func DefaultPath() string {
	if envPath := os.Getenv("MODELMUX_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.modelmux/config.yaml"
	}
	return filepath.Join(homeDir, ".modelmux", "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty), merges it
// over the built-in defaults, and applies environment overrides. A missing
// file is not an error; the environment alone can configure a provider.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	path = expandPath(path)

	cfg := defaults()

	data, err := os.ReadFile(path) //nolint:gosec // G304: user-specified config path
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv applies environment variable overrides to every section.
func (c *Config) applyEnv() {
	if provider := os.Getenv("MODELMUX_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if os.Getenv("MODELMUX_DEBUG") == "true" {
		c.Debug = true
	}
	c.OpenAI.applyEnv()
	c.Anthropic.applyEnv()
	c.Gemini.applyEnv()
	c.Ollama.applyEnv()
}

// Save writes the configuration to the specified path, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// providerConfig resolves the llm.ProviderConfig for one provider tag from
// the matching section.
func (c *Config) providerConfig(provider string) (llm.ProviderConfig, error) {
	switch provider {
	case llm.ProviderOpenAI:
		return c.OpenAI.providerConfig(), nil
	case llm.ProviderAnthropic:
		return c.Anthropic.providerConfig(), nil
	case llm.ProviderGemini:
		return c.Gemini.providerConfig(), nil
	case llm.ProviderOllama:
		return c.Ollama.providerConfig(), nil
	default:
		return llm.ProviderConfig{}, fmt.Errorf("unsupported provider %q (supported: %v)", provider, llm.SupportedProviders())
	}
}

// ClientConfig builds the client configuration from the loaded file:
// the primary provider's credentials inline, fallbacks resolved from their
// provider sections, and retry/timeout settings converted to their native
// types.
func (c *Config) ClientConfig() (client.Config, error) {
	primary, err := c.providerConfig(c.Provider)
	if err != nil {
		return client.Config{}, err
	}

	cfg := client.Config{
		Provider:     c.Provider,
		APIKey:       primary.APIKey,
		BaseURL:      primary.BaseURL,
		Organization: primary.Organization,
		Host:         primary.Host,
		Model:        primary.Model,
		Timeout:      time.Duration(c.Timeout) * time.Second,
		Debug:        c.Debug,
	}

	for _, fb := range c.Fallbacks {
		providerCfg, err := c.providerConfig(fb.Provider)
		if err != nil {
			return client.Config{}, fmt.Errorf("fallback: %w", err)
		}
		if fb.Model != "" {
			providerCfg.Model = fb.Model
		}
		cfg.Fallbacks = append(cfg.Fallbacks, llm.FallbackConfig{
			ProviderConfig: providerCfg,
			Priority:       fb.Priority,
		})
	}

	if c.Retry != nil {
		cfg.Retry = c.Retry.retryConfig()
	}

	return cfg, nil
}

// retryConfig converts the YAML retry section to retry.Config, leaving
// unset fields to the engine's defaults.
func (r *RetryConfig) retryConfig() *retry.Config {
	cfg := retry.DefaultConfig()
	if r.MaxRetries > 0 {
		cfg.MaxRetries = r.MaxRetries
	}
	if r.InitialDelayMS > 0 {
		cfg.InitialDelay = time.Duration(r.InitialDelayMS) * time.Millisecond
	}
	if r.MaxDelayMS > 0 {
		cfg.MaxDelay = time.Duration(r.MaxDelayMS) * time.Millisecond
	}
	if r.Multiplier >= 1 {
		cfg.Multiplier = r.Multiplier
	}
	return cfg
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
