package anthropic

import (
	"encoding/json"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/modelmux/modelmux/llm"
)

func weatherTool() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "get_weather",
		Description: "Get the current weather for a location",
		Parameters: llm.ObjectSchema(map[string]*llm.Schema{
			"location": llm.StringSchema("City name"),
			"unit":     llm.StringSchema("Temperature unit", "celsius", "fahrenheit"),
		}, "location"),
	}
}

func TestToToolUnionParamsPreservesSchema(t *testing.T) {
	params := ToToolUnionParams([]llm.ToolDefinition{weatherTool()})
	if len(params) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(params))
	}
	tool := params[0].OfTool
	if tool == nil {
		t.Fatal("expected plain tool variant")
	}
	if tool.Name != "get_weather" {
		t.Errorf("name = %q", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "location" {
		t.Errorf("required lost: %v", tool.InputSchema.Required)
	}
	props, ok := tool.InputSchema.Properties.(map[string]interface{})
	if !ok {
		t.Fatalf("properties should be a map, got %T", tool.InputSchema.Properties)
	}
	unit, ok := props["unit"].(map[string]interface{})
	if !ok {
		t.Fatalf("nested property lost: %v", props)
	}
	enum, ok := unit["enum"].([]string)
	if !ok || len(enum) != 2 {
		t.Errorf("enum lost: %v", unit["enum"])
	}
}

func TestToolCallRoundTrip(t *testing.T) {
	call := FromToolUseBlock(anthropic.ToolUseBlock{
		ID:    "toolu_123",
		Name:  "get_weather",
		Input: json.RawMessage(`{"location":"Tokyo","unit":"celsius"}`),
	})
	if call.ID != "toolu_123" || call.Function.Name != "get_weather" {
		t.Errorf("unexpected call: %+v", call)
	}
	var args map[string]string
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		t.Fatalf("arguments are not valid JSON: %v", err)
	}
	if args["unit"] != "celsius" {
		t.Errorf("unit = %q", args["unit"])
	}
}

func TestToToolChoiceModes(t *testing.T) {
	if choice := ToToolChoice(nil, nil); choice.OfAuto == nil {
		t.Error("nil choice should map to auto")
	}
	if choice := ToToolChoice(&llm.ToolChoice{Mode: llm.ToolChoiceNone}, nil); choice.OfNone == nil {
		t.Error("none should map to the none mode")
	}
	// "required" approximates to Anthropic's any mode.
	if choice := ToToolChoice(&llm.ToolChoice{Mode: llm.ToolChoiceRequired}, nil); choice.OfAny == nil {
		t.Error("required should map to the any mode")
	}
	pinned := ToToolChoice(llm.PinTool("get_weather"), nil)
	if pinned.OfTool == nil || pinned.OfTool.Name != "get_weather" {
		t.Errorf("pinned choice = %+v", pinned)
	}
}

func TestToToolChoiceDisablesParallelCalls(t *testing.T) {
	parallel := false
	choice := ToToolChoice(&llm.ToolChoice{Mode: llm.ToolChoiceRequired}, &parallel)
	if choice.OfAny == nil || !choice.OfAny.DisableParallelToolUse.Value {
		t.Error("parallel_tool_calls=false should set disable_parallel_tool_use")
	}
}

func TestToMessageParamToolResult(t *testing.T) {
	param, err := ToMessageParam(llm.ToolResultMessage("toolu_123", `{"temp":18}`))
	if err != nil {
		t.Fatal(err)
	}
	// Tool results travel as user messages carrying a tool_result block.
	if param.Role != anthropic.MessageParamRoleUser {
		t.Errorf("role = %q, want user", param.Role)
	}
	if len(param.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(param.Content))
	}
	result := param.Content[0].OfToolResult
	if result == nil {
		t.Fatal("expected tool_result block")
	}
	if result.ToolUseID != "toolu_123" {
		t.Errorf("tool_use_id = %q", result.ToolUseID)
	}
}

func TestToMessageParamRejectsSystemRole(t *testing.T) {
	// System messages are split out before translation; reaching the
	// per-message converter with one is a caller bug.
	if _, err := ToMessageParam(llm.SystemMessage("be brief")); err == nil {
		t.Fatal("expected error for system role")
	}
}

func TestSplitSystemConcatenatesPrompts(t *testing.T) {
	system, rest := splitSystem([]llm.Message{
		llm.SystemMessage("first"),
		llm.UserMessage("hello"),
		llm.SystemMessage("second"),
	})
	if system != "first\n\nsecond" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 1 || rest[0].Role != llm.RoleUser {
		t.Errorf("conversational rest = %+v", rest)
	}
}
