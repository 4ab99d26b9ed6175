package openai

import (
	"context"
	"errors"
	"net"

	"github.com/modelmux/modelmux/llm"
	openai "github.com/sashabaranov/go-openai"
)

// convertError reclassifies an SDK error into the shared taxonomy. OpenAI's
// SDK exposes structured status codes, so classification is status-driven;
// transport failures map to network/timeout kinds.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := llm.AsError(err); ok {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llm.FromStatus(llm.ProviderOpenAI, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return llm.FromStatus(llm.ProviderOpenAI, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewTimeoutError(llm.ProviderOpenAI, "request deadline exceeded", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return llm.NewTimeoutError(llm.ProviderOpenAI, "network timeout", err)
		}
		return llm.NewNetworkError(llm.ProviderOpenAI, "network failure", err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return llm.NewNetworkError(llm.ProviderOpenAI, "dns failure", err)
	}

	return llm.NewUnknownError(llm.ProviderOpenAI, "unclassified OpenAI error", err)
}
