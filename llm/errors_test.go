package llm

import (
	"errors"
	"testing"
)

func TestFromStatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		wantKind  ErrorKind
		retryable bool
	}{
		{401, ErrorKindAuthentication, false},
		{403, ErrorKindAuthentication, false},
		{429, ErrorKindRateLimit, true},
		{400, ErrorKindInvalidRequest, false},
		{408, ErrorKindTimeout, true},
		{500, ErrorKindAPI, true},
		{502, ErrorKindAPI, true},
		{503, ErrorKindAPI, true},
		{404, ErrorKindAPI, false},
	}

	for _, tt := range tests {
		err := FromStatus("openai", tt.status, "boom", nil)
		if err.Kind != tt.wantKind {
			t.Errorf("status %d: expected kind %v, got %v", tt.status, tt.wantKind, err.Kind)
		}
		if err.Retryable != tt.retryable {
			t.Errorf("status %d: expected retryable=%v, got %v", tt.status, tt.retryable, err.Retryable)
		}
		if err.Provider != "openai" {
			t.Errorf("status %d: expected provider openai, got %q", tt.status, err.Provider)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(NewRateLimitError("openai", "slow down", nil)) {
		t.Error("Expected rate limit error to be retryable")
	}
	if IsRetryable(NewAuthenticationError("openai", "bad key", nil)) {
		t.Error("Expected authentication error to be non-retryable")
	}
	if IsRetryable(NewUnknownError("openai", "???", nil)) {
		t.Error("Expected unknown error to be non-retryable")
	}
	if IsRetryable(errors.New("plain error")) {
		t.Error("Expected unstructured error to be non-retryable here")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(NewTimeoutError("gemini", "deadline", nil)) != ErrorKindTimeout {
		t.Error("Expected timeout kind")
	}
	if KindOf(errors.New("plain")) != ErrorKindUnknown {
		t.Error("Expected unknown kind for unstructured error")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("original error")
	wrapped := NewNetworkError("anthropic", "connection refused", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("Expected error to unwrap to original cause")
	}

	var llmErr *Error
	if !errors.As(error(wrapped), &llmErr) {
		t.Fatal("Expected errors.As to find *Error")
	}
	if llmErr.Kind != ErrorKindNetwork {
		t.Errorf("Expected network kind, got %v", llmErr.Kind)
	}
}

func TestErrorMessageIncludesProvider(t *testing.T) {
	err := NewAPIError("gemini", "upstream exploded", 503, nil)
	want := "gemini api_error: upstream exploded"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}
