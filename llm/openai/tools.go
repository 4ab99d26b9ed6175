package openai

import (
	"fmt"

	"github.com/modelmux/modelmux/llm"
	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
)

// ToMessages converts unified messages to OpenAI chat message format.
func ToMessages(msgs []llm.Message) ([]openai.ChatCompletionMessage, error) {
	result := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for i, msg := range msgs {
		converted, err := ToMessage(msg)
		if err != nil {
			return nil, llm.NewInvalidRequestError(llm.ProviderOpenAI, fmt.Sprintf("messages[%d]: %v", i, err), err)
		}
		result = append(result, converted)
	}
	return result, nil
}

// ToMessage converts a single unified message. OpenAI accepts all four roles
// natively, including inline system messages and tool-response messages
// keyed by tool_call_id.
func ToMessage(msg llm.Message) (openai.ChatCompletionMessage, error) {
	var role string
	switch msg.Role {
	case llm.RoleSystem:
		role = openai.ChatMessageRoleSystem
	case llm.RoleUser:
		role = openai.ChatMessageRoleUser
	case llm.RoleAssistant:
		role = openai.ChatMessageRoleAssistant
	case llm.RoleTool:
		role = openai.ChatMessageRoleTool
	default:
		return openai.ChatCompletionMessage{}, fmt.Errorf("unsupported role %q", msg.Role)
	}

	return openai.ChatCompletionMessage{
		Role:       role,
		Content:    msg.Content,
		Name:       msg.Name,
		ToolCallID: msg.ToolCallID,
		ToolCalls: lo.Map(msg.ToolCalls, func(tc llm.ToolCall, _ int) openai.ToolCall {
			return openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}),
	}, nil
}

// ToTools converts unified tool definitions to the OpenAI tool envelope.
// The schema tree passes through as a generic map, preserving required,
// enum, and nested properties.
func ToTools(tools []llm.ToolDefinition) []openai.Tool {
	return lo.Map(tools, func(tool llm.ToolDefinition, _ int) openai.Tool {
		return openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters.AsMap(),
			},
		}
	})
}

// ToToolChoice maps the logical tool choice onto OpenAI's tool_choice field.
// OpenAI supports all four modes natively.
func ToToolChoice(choice *llm.ToolChoice) any {
	if choice == nil {
		return "auto"
	}
	switch choice.Mode {
	case llm.ToolChoiceNone:
		return "none"
	case llm.ToolChoiceRequired:
		return "required"
	case llm.ToolChoiceFunction:
		return openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: choice.FunctionName},
		}
	default:
		return "auto"
	}
}

// FromToolCalls extracts unified tool calls from an OpenAI response message.
// OpenAI always assigns ids, so none are synthesized.
func FromToolCalls(toolCalls []openai.ToolCall) []llm.ToolCall {
	return lo.Map(toolCalls, func(tc openai.ToolCall, _ int) llm.ToolCall {
		return llm.ToolCall{
			ID:   tc.ID,
			Type: llm.ToolCallTypeFunction,
			Function: llm.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		}
	})
}
