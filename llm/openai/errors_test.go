package openai

import (
	"errors"
	"testing"

	"github.com/modelmux/modelmux/llm"
	openai "github.com/sashabaranov/go-openai"
)

func TestConvertErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantKind  llm.ErrorKind
		retryable bool
	}{
		{"unauthorized", 401, llm.ErrorKindAuthentication, false},
		{"rate limited", 429, llm.ErrorKindRateLimit, true},
		{"bad request", 400, llm.ErrorKindInvalidRequest, false},
		{"server error", 500, llm.ErrorKindAPI, true},
		{"bad gateway", 502, llm.ErrorKindAPI, true},
		{"teapot", 418, llm.ErrorKindAPI, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := convertError(&openai.APIError{HTTPStatusCode: tt.status, Message: tt.name})
			unified, ok := llm.AsError(err)
			if !ok {
				t.Fatalf("expected unified error, got %T", err)
			}
			if unified.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", unified.Kind, tt.wantKind)
			}
			if unified.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", unified.Retryable, tt.retryable)
			}
			if unified.Provider != llm.ProviderOpenAI {
				t.Errorf("provider = %q", unified.Provider)
			}
		})
	}
}

func TestConvertErrorUnknownFallback(t *testing.T) {
	err := convertError(errors.New("something inexplicable"))
	unified, ok := llm.AsError(err)
	if !ok {
		t.Fatalf("expected unified error, got %T", err)
	}
	if unified.Kind != llm.ErrorKindUnknown {
		t.Errorf("kind = %v, want unknown_error", unified.Kind)
	}
	if unified.Retryable {
		t.Error("unknown errors must not be retryable")
	}
}

func TestConvertErrorPassesThroughUnified(t *testing.T) {
	original := llm.NewRateLimitError(llm.ProviderOpenAI, "slow down", nil)
	if got := convertError(original); got != error(original) {
		t.Errorf("unified errors should pass through unchanged, got %v", got)
	}
}
