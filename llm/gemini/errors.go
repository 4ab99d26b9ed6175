package gemini

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/modelmux/modelmux/llm"
	"google.golang.org/genai"
)

// convertError reclassifies an SDK error into the shared taxonomy. The
// Gemini SDK carries a status code on APIError, but several failure paths
// surface plain errors whose only signal is the message text, so this
// classifier falls back to substring heuristics. The heuristic is
// deliberately confined to this vendor; the unknown kind is the documented
// fallback when nothing matches.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := llm.AsError(err); ok {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return llm.FromStatus(llm.ProviderGemini, apiErr.Code, apiErr.Message, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewTimeoutError(llm.ProviderGemini, "request deadline exceeded", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return llm.NewTimeoutError(llm.ProviderGemini, "network timeout", err)
		}
		return llm.NewNetworkError(llm.ProviderGemini, "network failure", err)
	}

	return classifyByMessage(err)
}

// classifyByMessage inspects the error text for vendor-specific markers.
func classifyByMessage(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission denied"):
		return llm.NewAuthenticationError(llm.ProviderGemini, "authentication failed", err)

	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "429"):
		return llm.NewRateLimitError(llm.ProviderGemini, "rate limit exceeded", err)

	case strings.Contains(msg, "invalid argument") || strings.Contains(msg, "invalid_argument") ||
		strings.Contains(msg, "not found"):
		return llm.NewInvalidRequestError(llm.ProviderGemini, "invalid request", err)

	case strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out"):
		return llm.NewTimeoutError(llm.ProviderGemini, "request timed out", err)

	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connection reset"):
		return llm.NewNetworkError(llm.ProviderGemini, "network failure", err)

	case strings.Contains(msg, "internal") || strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "overloaded") || strings.Contains(msg, "503"):
		return llm.NewAPIError(llm.ProviderGemini, "upstream failure", 503, err)

	default:
		return llm.NewUnknownError(llm.ProviderGemini, "unclassified Gemini error", err)
	}
}
