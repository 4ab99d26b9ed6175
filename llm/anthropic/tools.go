package anthropic

import (
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/modelmux/modelmux/llm"
	"github.com/samber/lo"
)

// ToMessageParams converts unified messages to Anthropic MessageParams.
// Tool-response messages become user messages carrying a tool_result block
// keyed by the originating tool_use id.
func ToMessageParams(msgs []llm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(msgs))
	for i, msg := range msgs {
		param, err := ToMessageParam(msg)
		if err != nil {
			return nil, llm.NewInvalidRequestError(llm.ProviderAnthropic, fmt.Sprintf("messages[%d]: %v", i, err), err)
		}
		result = append(result, param)
	}
	return result, nil
}

// ToMessageParam converts a single unified message to an Anthropic MessageParam.
func ToMessageParam(msg llm.Message) (anthropic.MessageParam, error) {
	switch msg.Role {
	case llm.RoleUser:
		return anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)), nil

	case llm.RoleTool:
		return anthropic.NewUserMessage(
			anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false),
		), nil

	case llm.RoleAssistant:
		blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls))
		if msg.Content != "" {
			blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
		}
		for _, tc := range msg.ToolCalls {
			input, err := decodeArguments(tc.Function.Arguments)
			if err != nil {
				return anthropic.MessageParam{}, fmt.Errorf("tool call %s: %w", tc.ID, err)
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Function.Name))
		}
		return anthropic.NewAssistantMessage(blocks...), nil

	default:
		return anthropic.MessageParam{}, fmt.Errorf("unsupported role %q", msg.Role)
	}
}

// ToToolUnionParams converts unified tool definitions into the Anthropic tool
// envelope, renaming the parameter tree to input_schema. Required, enum, and
// nested properties survive the translation via Schema.AsMap.
func ToToolUnionParams(tools []llm.ToolDefinition) []anthropic.ToolUnionParam {
	return lo.Map(tools, func(tool llm.ToolDefinition, _ int) anthropic.ToolUnionParam {
		var properties map[string]interface{}
		var required []string
		if tool.Parameters != nil {
			schemaMap := tool.Parameters.AsMap()
			if props, ok := schemaMap["properties"].(map[string]interface{}); ok {
				properties = props
			}
			required = tool.Parameters.Required
		}

		return anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: properties,
					Required:   required,
				},
			},
		}
	})
}

// ToToolChoice maps the logical tool choice to the Messages API tool_choice.
// "required" approximates to Anthropic's "any" mode (call some tool, model's
// pick). ParallelToolCalls=false maps to disable_parallel_tool_use.
func ToToolChoice(choice *llm.ToolChoice, parallel *bool) anthropic.ToolChoiceUnionParam {
	disableParallel := parallel != nil && !*parallel

	mode := llm.ToolChoiceAuto
	if choice != nil {
		mode = choice.Mode
	}

	switch mode {
	case llm.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
	case llm.ToolChoiceRequired:
		param := &anthropic.ToolChoiceAnyParam{}
		if disableParallel {
			param.DisableParallelToolUse = anthropic.Bool(true)
		}
		return anthropic.ToolChoiceUnionParam{OfAny: param}
	case llm.ToolChoiceFunction:
		param := &anthropic.ToolChoiceToolParam{Name: choice.FunctionName}
		if disableParallel {
			param.DisableParallelToolUse = anthropic.Bool(true)
		}
		return anthropic.ToolChoiceUnionParam{OfTool: param}
	default:
		param := &anthropic.ToolChoiceAutoParam{}
		if disableParallel {
			param.DisableParallelToolUse = anthropic.Bool(true)
		}
		return anthropic.ToolChoiceUnionParam{OfAuto: param}
	}
}

// FromToolUseBlock extracts a unified tool call from an Anthropic tool_use
// block. Anthropic assigns ids, so none are synthesized; the input object is
// re-encoded as the raw argument string.
func FromToolUseBlock(block anthropic.ToolUseBlock) llm.ToolCall {
	args := "{}"
	if data, err := json.Marshal(block.Input); err == nil && len(data) > 0 && string(data) != "null" {
		args = string(data)
	}
	return llm.ToolCall{
		ID:   block.ID,
		Type: llm.ToolCallTypeFunction,
		Function: llm.FunctionCall{
			Name:      block.Name,
			Arguments: args,
		},
	}
}

func decodeArguments(arguments string) (map[string]interface{}, error) {
	if arguments == "" {
		return map[string]interface{}{}, nil
	}
	var input map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &input); err != nil {
		return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return input, nil
}
