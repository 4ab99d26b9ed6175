package llm

import (
	"encoding/json"
	"testing"
)

func TestMessageHelpers(t *testing.T) {
	msg := UserMessage("Hello, world!")
	if msg.Role != RoleUser {
		t.Errorf("Expected role %v, got %v", RoleUser, msg.Role)
	}
	if msg.Content != "Hello, world!" {
		t.Errorf("Expected content 'Hello, world!', got %q", msg.Content)
	}

	result := ToolResultMessage("call_1", `{"ok":true}`)
	if result.Role != RoleTool {
		t.Errorf("Expected role %v, got %v", RoleTool, result.Role)
	}
	if result.ToolCallID != "call_1" {
		t.Errorf("Expected tool_call_id 'call_1', got %q", result.ToolCallID)
	}
}

func TestEffectiveToolsPrefersModernSurface(t *testing.T) {
	req := &ChatRequest{
		Tools:     []ToolDefinition{{Name: "modern"}},
		Functions: []ToolDefinition{{Name: "legacy"}},
	}
	tools, _, legacy := req.EffectiveTools()
	if legacy {
		t.Error("Expected legacy=false when modern tools are present")
	}
	if len(tools) != 1 || tools[0].Name != "modern" {
		t.Errorf("Expected modern tool list, got %v", tools)
	}
}

func TestEffectiveToolsLegacyFunctionCall(t *testing.T) {
	req := &ChatRequest{
		Functions:    []ToolDefinition{{Name: "get_weather"}},
		FunctionCall: "get_weather",
	}
	tools, choice, legacy := req.EffectiveTools()
	if !legacy {
		t.Error("Expected legacy=true for functions-only request")
	}
	if len(tools) != 1 || tools[0].Name != "get_weather" {
		t.Errorf("Expected legacy function list, got %v", tools)
	}
	if choice == nil || choice.Mode != ToolChoiceFunction || choice.FunctionName != "get_weather" {
		t.Errorf("Expected pinned tool choice, got %+v", choice)
	}

	req.FunctionCall = "auto"
	_, choice, _ = req.EffectiveTools()
	if choice == nil || choice.Mode != ToolChoiceAuto {
		t.Errorf("Expected auto tool choice, got %+v", choice)
	}
}

func TestPinTool(t *testing.T) {
	choice := PinTool("search")
	if choice.Mode != ToolChoiceFunction {
		t.Errorf("Expected function mode, got %v", choice.Mode)
	}
	if choice.FunctionName != "search" {
		t.Errorf("Expected function name 'search', got %q", choice.FunctionName)
	}
}

func TestRequestToJSON(t *testing.T) {
	req := &ChatRequest{
		Model:    "gpt-4o",
		Messages: []Message{UserMessage("hi")},
	}
	data, err := req.ToJSON()
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	var decoded ChatRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if decoded.Model != "gpt-4o" {
		t.Errorf("Expected model gpt-4o, got %q", decoded.Model)
	}
}
