package llm

import "testing"

func TestResolveModelPrecedence(t *testing.T) {
	cfg := ProviderConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}

	if got := cfg.ResolveModel("gpt-4.1"); got != "gpt-4.1" {
		t.Errorf("Expected request model to win, got %q", got)
	}
	if got := cfg.ResolveModel(""); got != "gpt-4o-mini" {
		t.Errorf("Expected configured default, got %q", got)
	}

	bare := ProviderConfig{Provider: ProviderAnthropic}
	if got := bare.ResolveModel(""); got != DefaultModel(ProviderAnthropic) {
		t.Errorf("Expected hardcoded default, got %q", got)
	}
}

func TestDefaultModelKnownProviders(t *testing.T) {
	for _, provider := range SupportedProviders() {
		if DefaultModel(provider) == "" {
			t.Errorf("Expected default model for %s", provider)
		}
	}
	if DefaultModel("mystery") != "" {
		t.Error("Expected empty default for unknown provider")
	}
}

func TestSortFallbacks(t *testing.T) {
	fallbacks := []FallbackConfig{
		{ProviderConfig: ProviderConfig{Provider: ProviderGemini}, Priority: 2},
		{ProviderConfig: ProviderConfig{Provider: ProviderAnthropic}, Priority: 1},
		{ProviderConfig: ProviderConfig{Provider: ProviderOllama}, Priority: 3},
	}
	sorted := SortFallbacks(fallbacks)

	want := []string{ProviderAnthropic, ProviderGemini, ProviderOllama}
	for i, provider := range want {
		if sorted[i].Provider != provider {
			t.Errorf("position %d: expected %s, got %s", i, provider, sorted[i].Provider)
		}
	}
	if fallbacks[0].Provider != ProviderGemini {
		t.Error("Expected input slice to be left untouched")
	}
}

func TestSortFallbacksStableOnTies(t *testing.T) {
	fallbacks := []FallbackConfig{
		{ProviderConfig: ProviderConfig{Provider: "first"}, Priority: 1},
		{ProviderConfig: ProviderConfig{Provider: "second"}, Priority: 1},
	}
	sorted := SortFallbacks(fallbacks)
	if sorted[0].Provider != "first" || sorted[1].Provider != "second" {
		t.Error("Expected declaration order preserved for equal priorities")
	}
}
