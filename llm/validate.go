package llm

import "fmt"

// ValidateRequest performs the request checks shared by every adapter:
// non-empty messages, temperature within [0,2], and positive max tokens
// when set. It runs before any network interaction and fails identically
// across providers.
func ValidateRequest(provider string, req *ChatRequest) error {
	if req == nil {
		return NewInvalidRequestError(provider, "request is required", nil)
	}
	if len(req.Messages) == 0 {
		return NewInvalidRequestError(provider, "messages must not be empty", nil)
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return NewInvalidRequestError(provider, fmt.Sprintf("temperature %v out of range [0, 2]", *req.Temperature), nil)
	}
	if req.MaxTokens < 0 {
		return NewInvalidRequestError(provider, fmt.Sprintf("max_tokens %d must be at least 1", req.MaxTokens), nil)
	}
	for i, msg := range req.Messages {
		if msg.Role == RoleTool && msg.ToolCallID == "" {
			return NewInvalidRequestError(provider, fmt.Sprintf("messages[%d]: tool message requires tool_call_id", i), nil)
		}
		if msg.Content == "" && len(msg.ToolCalls) == 0 {
			return NewInvalidRequestError(provider, fmt.Sprintf("messages[%d]: content must not be empty", i), nil)
		}
	}
	return nil
}
