package gemini

import (
	"errors"
	"fmt"
	"testing"

	"github.com/modelmux/modelmux/llm"
)

// The Gemini SDK surfaces several failures as plain errors with no status
// code, so classification falls back to message substrings.
func TestClassifyByMessage(t *testing.T) {
	tests := []struct {
		message   string
		wantKind  llm.ErrorKind
		retryable bool
	}{
		{"API key not valid. Please pass a valid API key.", llm.ErrorKindAuthentication, false},
		{"rpc error: code = Unauthenticated", llm.ErrorKindAuthentication, false},
		{"quota exceeded for quota metric", llm.ErrorKindRateLimit, true},
		{"rate limit exceeded, try again later", llm.ErrorKindRateLimit, true},
		{"invalid argument: contents must not be empty", llm.ErrorKindInvalidRequest, false},
		{"model not found", llm.ErrorKindInvalidRequest, false},
		{"context deadline exceeded while awaiting headers", llm.ErrorKindTimeout, true},
		{"dial tcp: connection refused", llm.ErrorKindNetwork, true},
		{"the model is overloaded, please retry", llm.ErrorKindAPI, true},
		{"an entirely novel failure", llm.ErrorKindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := convertError(errors.New(tt.message))
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
		})
	}
}

func TestConvertErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("quota exceeded")
	unified, ok := llm.AsError(convertError(cause))
	if !ok {
		t.Fatal("expected unified error")
	}
	if !errors.Is(unified, cause) {
		t.Error("classified error should wrap the original cause")
	}
}
