package llm

import (
	"encoding/json"
	"time"
)

// Role represents the role of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in a conversation.
// A message with RoleTool must carry the ToolCallID of the assistant
// tool call it responds to. Content may be empty only when ToolCalls
// is non-empty.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCallTypeFunction is the only tool call type currently emitted by any
// supported vendor.
const ToolCallTypeFunction = "function"

// ToolCall represents a function invocation emitted by the model.
// Arguments is the raw JSON-encoded argument string, not yet parsed;
// the caller executes the named function and answers with a RoleTool
// message referencing the same ID.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the function name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition represents a named function exposed to the model.
// It is caller-supplied, immutable, and echoed unchanged across a
// multi-step tool-calling exchange.
type ToolDefinition struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// ToolChoiceMode constrains whether and which tool the model may invoke.
type ToolChoiceMode string

const (
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceRequired ToolChoiceMode = "required"
	ToolChoiceFunction ToolChoiceMode = "function"
)

// ToolChoice is a request-level tool-use directive. FunctionName is set
// only when Mode is ToolChoiceFunction.
type ToolChoice struct {
	Mode         ToolChoiceMode `json:"mode"`
	FunctionName string         `json:"function_name,omitempty"`
}

// PinTool returns a ToolChoice forcing the model to call the named function.
func PinTool(name string) *ToolChoice {
	return &ToolChoice{Mode: ToolChoiceFunction, FunctionName: name}
}

// ChatRequest represents a complete chat completion request.
// It is a stateless value object; one request is one logical exchange.
type ChatRequest struct {
	Model            string           `json:"model,omitempty"`
	Messages         []Message        `json:"messages"`
	Temperature      *float64         `json:"temperature,omitempty"`
	MaxTokens        int              `json:"max_tokens,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	FrequencyPenalty *float64         `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64         `json:"presence_penalty,omitempty"`
	Stop             []string         `json:"stop,omitempty"`
	Tools            []ToolDefinition `json:"tools,omitempty"`
	ToolChoice       *ToolChoice      `json:"tool_choice,omitempty"`
	ParallelToolCalls *bool           `json:"parallel_tool_calls,omitempty"`

	// Deprecated: Functions and FunctionCall are the legacy function-calling
	// surface. Use Tools and ToolChoice instead. When both are set the modern
	// fields win.
	Functions    []ToolDefinition `json:"functions,omitempty"`
	FunctionCall string           `json:"function_call,omitempty"`
}

// EffectiveTools resolves the modern and legacy tool surfaces. It returns the
// tool list and choice to send upstream, plus whether the legacy fields were
// the source (so callers can emit a deprecation warning).
func (r *ChatRequest) EffectiveTools() ([]ToolDefinition, *ToolChoice, bool) {
	if len(r.Tools) > 0 {
		return r.Tools, r.ToolChoice, false
	}
	if len(r.Functions) == 0 {
		return nil, r.ToolChoice, false
	}
	choice := r.ToolChoice
	if choice == nil && r.FunctionCall != "" {
		switch r.FunctionCall {
		case "auto":
			choice = &ToolChoice{Mode: ToolChoiceAuto}
		case "none":
			choice = &ToolChoice{Mode: ToolChoiceNone}
		default:
			choice = PinTool(r.FunctionCall)
		}
	}
	return r.Functions, choice, true
}

// FinishReason describes why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
)

// Usage records token accounting for one response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse represents a complete chat completion response.
// Produced exactly once per non-streaming Chat call.
type ChatResponse struct {
	ID           string       `json:"id"`
	Provider     string       `json:"provider"`
	Model        string       `json:"model"`
	Message      Message      `json:"message"`
	FinishReason FinishReason `json:"finish_reason,omitempty"`
	Usage        *Usage       `json:"usage,omitempty"`
	Created      time.Time    `json:"created"`
}

// ToolCallDelta is a partial, indexed piece of a tool call delivered
// incrementally during streaming. Fragments sharing an Index are
// concatenated (Arguments) by the caller.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// StreamChunk is one incremental delta of a streaming response. Exactly one
// terminal chunk carries a non-empty FinishReason.
type StreamChunk struct {
	Role         Role            `json:"role,omitempty"`
	Content      string          `json:"content,omitempty"`
	ToolCalls    []ToolCallDelta `json:"tool_calls,omitempty"`
	FinishReason FinishReason    `json:"finish_reason,omitempty"`
}

// SystemMessage creates a new system message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage creates a new user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates a new assistant message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// ToolResultMessage creates a tool-response message referencing a prior
// assistant tool call.
func ToolResultMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// ToJSON marshals a request to JSON for debugging/logging purposes.
func (r *ChatRequest) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
