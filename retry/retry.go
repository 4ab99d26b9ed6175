// Package retry provides a generic exponential-backoff retry wrapper and a
// timeout-racing wrapper for LLM provider calls.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/modelmux/modelmux/llm"
)

const (
	// DefaultMaxRetries is the default number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultInitialDelay is the default delay before the first retry.
	DefaultInitialDelay = 1 * time.Second
	// DefaultMaxDelay caps the exponential backoff delay.
	DefaultMaxDelay = 60 * time.Second
	// DefaultMultiplier is the exponential backoff multiplier.
	DefaultMultiplier = 2.0
)

// Config controls the retry schedule. The delay before retry k (1-indexed)
// is min(InitialDelay * Multiplier^(k-1), MaxDelay).
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig returns the standard retry schedule:
// 3 retries, 1s initial delay, 2x multiplier, 60s max delay.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultMultiplier,
	}
}

func (c *Config) normalized() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.InitialDelay <= 0 {
		out.InitialDelay = DefaultInitialDelay
	}
	if out.MaxDelay <= 0 {
		out.MaxDelay = DefaultMaxDelay
	}
	if out.Multiplier < 1 {
		out.Multiplier = DefaultMultiplier
	}
	return &out
}

// Predicate decides whether an unstructured error is worth retrying.
// Structured llm.Error values are judged by their Retryable flag instead.
type Predicate func(error) bool

// Do attempts fn up to MaxRetries+1 times with exponential backoff between
// attempts. A structured llm.Error is retried iff its Retryable flag is set.
// Unstructured errors are judged by isRetryable; a nil predicate treats them
// as retryable. On exhaustion the last error is returned unchanged, not
// wrapped.
func Do[T any](ctx context.Context, cfg *Config, isRetryable Predicate, fn func(context.Context) (T, error)) (T, error) {
	cfg = cfg.normalized()

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.InitialDelay
	eb.MaxInterval = cfg.MaxDelay
	eb.Multiplier = cfg.Multiplier
	// The delay schedule is a documented contract, so no jitter.
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	eb.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(cfg.MaxRetries)), ctx)

	return backoff.RetryWithData(func() (T, error) {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !shouldRetry(err, isRetryable) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, policy)
}

// DoWithTimeout races the retrying operation against a timer. If the timer
// fires first the result is a fresh retryable timeout error, regardless of
// what the operation itself would eventually have produced. The in-flight
// operation is not cancelled; only its result is abandoned, so orphaned
// requests may keep consuming upstream quota after a client-side timeout.
func DoWithTimeout[T any](ctx context.Context, cfg *Config, timeout time.Duration, isRetryable Predicate, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return Do(ctx, cfg, isRetryable, fn)
	}

	type outcome struct {
		result T
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := Do(ctx, cfg, isRetryable, fn)
		done <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case out := <-done:
		return out.result, out.err
	case <-timer.C:
		return zero, llm.NewTimeoutError("", fmt.Sprintf("operation timed out after %s", timeout), nil)
	case <-ctx.Done():
		return zero, llm.NewTimeoutError("", "operation cancelled", ctx.Err())
	}
}

func shouldRetry(err error, isRetryable Predicate) bool {
	if llmErr, ok := llm.AsError(err); ok {
		return llmErr.Retryable
	}
	if isRetryable != nil {
		return isRetryable(err)
	}
	// Unstructured errors default to retryable.
	return true
}
