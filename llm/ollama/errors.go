package ollama

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/modelmux/modelmux/llm"
	"github.com/ollama/ollama/api"
)

// convertError classifies an Ollama SDK failure into the unified taxonomy.
// The SDK surfaces HTTP failures as api.StatusError; everything else is a
// transport-level problem, most commonly a server that is not running.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	if unified, ok := llm.AsError(err); ok {
		return unified
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.ErrorMessage
		if message == "" {
			message = statusErr.Status
		}
		return llm.FromStatus(llm.ProviderOllama, statusErr.StatusCode, message, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewTimeoutError(llm.ProviderOllama, "request timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return llm.NewTimeoutError(llm.ProviderOllama, "request timed out", err)
		}
		return llm.NewNetworkError(llm.ProviderOllama, err.Error(), err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		return llm.NewNetworkError(llm.ProviderOllama, "cannot reach Ollama server", err)
	}

	return llm.NewUnknownError(llm.ProviderOllama, err.Error(), err)
}
