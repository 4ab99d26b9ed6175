package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelmux/modelmux/llm"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), nil, func(_ context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", llm.NewRateLimitError("openai", "slow down", nil)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected result 'ok', got %q", result)
	}
	if calls != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	authErr := llm.NewAuthenticationError("openai", "bad key", nil)
	_, err := Do(context.Background(), fastConfig(), nil, func(_ context.Context) (string, error) {
		calls++
		return "", authErr
	})
	if calls != 1 {
		t.Errorf("Expected exactly 1 attempt for non-retryable error, got %d", calls)
	}
	if !errors.Is(err, authErr) {
		t.Errorf("Expected original error back, got %v", err)
	}
}

func TestDoExhaustsBudgetAndReturnsLastError(t *testing.T) {
	calls := 0
	last := llm.NewAPIError("anthropic", "upstream down", 503, nil)
	_, err := Do(context.Background(), fastConfig(), nil, func(_ context.Context) (string, error) {
		calls++
		return "", last
	})
	if calls != 4 {
		t.Errorf("Expected MaxRetries+1 = 4 attempts, got %d", calls)
	}
	llmErr, ok := llm.AsError(err)
	if !ok {
		t.Fatalf("Expected structured error, got %v", err)
	}
	if llmErr != last {
		t.Error("Expected the last error unchanged, not a wrapper")
	}
}

func TestDoUnstructuredErrorsDefaultToRetryable(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), nil, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("flaky")
	})
	if calls != 4 {
		t.Errorf("Expected 4 attempts for unstructured error, got %d", calls)
	}
	if err == nil || err.Error() != "flaky" {
		t.Errorf("Expected last error unchanged, got %v", err)
	}
}

func TestDoPredicateOverridesUnstructuredDefault(t *testing.T) {
	calls := 0
	never := func(error) bool { return false }
	_, _ = Do(context.Background(), fastConfig(), never, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("flaky")
	})
	if calls != 1 {
		t.Errorf("Expected 1 attempt with never-retry predicate, got %d", calls)
	}
}

func TestDoWithTimeoutRejectsSlowOperation(t *testing.T) {
	_, err := DoWithTimeout(context.Background(), fastConfig(), 10*time.Millisecond, nil, func(_ context.Context) (string, error) {
		time.Sleep(time.Second)
		return "too late", nil
	})
	llmErr, ok := llm.AsError(err)
	if !ok {
		t.Fatalf("Expected structured error, got %v", err)
	}
	if llmErr.Kind != llm.ErrorKindTimeout {
		t.Errorf("Expected timeout kind, got %v", llmErr.Kind)
	}
	if !llmErr.Retryable {
		t.Error("Expected timeout error to be retryable")
	}
}

func TestDoWithTimeoutPassesThroughFastResult(t *testing.T) {
	result, err := DoWithTimeout(context.Background(), fastConfig(), time.Second, nil, func(_ context.Context) (string, error) {
		return "fast", nil
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result != "fast" {
		t.Errorf("Expected 'fast', got %q", result)
	}
}

func TestDoZeroTimeoutMeansNoTimer(t *testing.T) {
	result, err := DoWithTimeout(context.Background(), fastConfig(), 0, nil, func(_ context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || result != "ok" {
		t.Errorf("Expected plain retry path, got %q, %v", result, err)
	}
}
