package llm

import (
	"os"
	"sort"
)

// Provider identifiers for the built-in adapters. Extension to a new vendor
// is adding a new identifier and adapter package, not subclassing.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// SupportedProviders lists the built-in provider identifiers.
func SupportedProviders() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}
}

// DefaultModel returns the hardcoded default model for a provider, used when
// neither the request nor the provider config specifies one.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderAnthropic:
		return "claude-sonnet-4-20250514"
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOllama:
		return "llama3.2"
	default:
		return ""
	}
}

// ProviderConfig holds the settings needed to construct one adapter.
// It is treated as immutable once handed to an adapter constructor.
type ProviderConfig struct {
	Provider     string `yaml:"provider"`
	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`      // OpenAI-compatible endpoints
	Organization string `yaml:"organization,omitempty"`  // OpenAI
	Host         string `yaml:"host,omitempty"`          // Ollama
	Model        string `yaml:"model,omitempty"`         // Configured default model
}

// ResolveModel picks the model for a request: request model first, then the
// configured default, then the provider's hardcoded default.
func (c ProviderConfig) ResolveModel(requestModel string) string {
	if requestModel != "" {
		return requestModel
	}
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// APIKeyOrEnv returns the configured API key, falling back to the provider's
// conventional environment variable.
func (c ProviderConfig) APIKeyOrEnv() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch c.Provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}

// FallbackConfig is a ProviderConfig tried after higher-priority providers
// fail. Lower Priority values are tried earlier.
type FallbackConfig struct {
	ProviderConfig `yaml:",inline"`
	Priority       int `yaml:"priority"`
}

// SortFallbacks returns the fallbacks ordered ascending by priority. It is
// called once at client construction; ties keep their declaration order and
// the input slice is left untouched.
func SortFallbacks(fallbacks []FallbackConfig) []FallbackConfig {
	sorted := make([]FallbackConfig, len(fallbacks))
	copy(sorted, fallbacks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
