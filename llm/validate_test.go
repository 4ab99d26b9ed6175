package llm

import "testing"

func TestValidateRequestEmptyMessages(t *testing.T) {
	err := ValidateRequest("openai", &ChatRequest{})
	llmErr, ok := AsError(err)
	if !ok {
		t.Fatal("Expected structured error for empty messages")
	}
	if llmErr.Kind != ErrorKindInvalidRequest {
		t.Errorf("Expected invalid_request kind, got %v", llmErr.Kind)
	}
	if llmErr.Retryable {
		t.Error("Expected validation error to be non-retryable")
	}
}

func TestValidateRequestTemperatureRange(t *testing.T) {
	for _, temp := range []float64{-0.1, 2.1, 5} {
		req := &ChatRequest{
			Messages:    []Message{UserMessage("hi")},
			Temperature: &temp,
		}
		err := ValidateRequest("anthropic", req)
		if KindOf(err) != ErrorKindInvalidRequest {
			t.Errorf("temperature %v: expected invalid_request, got %v", temp, err)
		}
	}

	for _, temp := range []float64{0, 1, 2} {
		req := &ChatRequest{
			Messages:    []Message{UserMessage("hi")},
			Temperature: &temp,
		}
		if err := ValidateRequest("anthropic", req); err != nil {
			t.Errorf("temperature %v: expected no error, got %v", temp, err)
		}
	}
}

func TestValidateRequestToolMessageNeedsCallID(t *testing.T) {
	req := &ChatRequest{
		Messages: []Message{
			UserMessage("run the tool"),
			{Role: RoleTool, Content: "result"},
		},
	}
	if KindOf(ValidateRequest("gemini", req)) != ErrorKindInvalidRequest {
		t.Error("Expected invalid_request for tool message without tool_call_id")
	}
}

func TestValidateRequestToolCallsOnlyMessage(t *testing.T) {
	req := &ChatRequest{
		Messages: []Message{
			UserMessage("weather?"),
			{
				Role: RoleAssistant,
				ToolCalls: []ToolCall{
					{ID: "call_1", Type: ToolCallTypeFunction, Function: FunctionCall{Name: "get_weather", Arguments: "{}"}},
				},
			},
			ToolResultMessage("call_1", `{"temp": 20}`),
		},
	}
	if err := ValidateRequest("openai", req); err != nil {
		t.Errorf("Expected tool-calls-only assistant message to validate, got %v", err)
	}
}
