package anthropic

import (
	"context"
	"errors"
	"net"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/modelmux/modelmux/llm"
)

// convertError reclassifies an SDK error into the shared taxonomy. The
// Anthropic SDK surfaces structured status codes, so classification is
// status-driven.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := llm.AsError(err); ok {
		return err
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return llm.FromStatus(llm.ProviderAnthropic, apiErr.StatusCode, apiErr.Error(), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewTimeoutError(llm.ProviderAnthropic, "request deadline exceeded", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return llm.NewTimeoutError(llm.ProviderAnthropic, "network timeout", err)
		}
		return llm.NewNetworkError(llm.ProviderAnthropic, "network failure", err)
	}

	return llm.NewUnknownError(llm.ProviderAnthropic, "unclassified Anthropic error", err)
}
