package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelmux/modelmux/llm"
	"github.com/ollama/ollama/api"
	"github.com/samber/lo"
)

// ToMessages converts unified messages to the Ollama wire format. All four
// roles exist natively; tool results carry no call id on the wire, so the
// id is dropped.
func ToMessages(messages []llm.Message) ([]api.Message, error) {
	out := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		converted, err := toMessage(msg)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func toMessage(msg llm.Message) (api.Message, error) {
	switch msg.Role {
	case llm.RoleSystem, llm.RoleUser, llm.RoleTool:
		return api.Message{Role: string(msg.Role), Content: msg.Content}, nil
	case llm.RoleAssistant:
		out := api.Message{Role: string(llm.RoleAssistant), Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			args, err := decodeArguments(tc.Function.Arguments)
			if err != nil {
				return api.Message{}, llm.NewInvalidRequestError(llm.ProviderOllama,
					fmt.Sprintf("tool call %s has malformed arguments", tc.ID), err)
			}
			out.ToolCalls = append(out.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      tc.Function.Name,
					Arguments: args,
				},
			})
		}
		return out, nil
	default:
		return api.Message{}, llm.NewInvalidRequestError(llm.ProviderOllama,
			fmt.Sprintf("unsupported message role %q", msg.Role), nil)
	}
}

// ToTools converts unified tool definitions to Ollama's tool format.
func ToTools(tools []llm.ToolDefinition) []api.Tool {
	return lo.Map(tools, func(tool llm.ToolDefinition, _ int) api.Tool {
		return api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  toParameters(tool.Parameters),
			},
		}
	})
}

func toParameters(schema *llm.Schema) api.ToolFunctionParameters {
	params := api.ToolFunctionParameters{Type: "object"}
	if schema == nil {
		return params
	}
	if schema.Type != "" {
		params.Type = schema.Type
	}
	params.Required = schema.Required
	if len(schema.Properties) > 0 {
		params.Properties = make(map[string]api.ToolProperty, len(schema.Properties))
		for name, prop := range schema.Properties {
			params.Properties[name] = toProperty(prop)
		}
	}
	return params
}

func toProperty(schema *llm.Schema) api.ToolProperty {
	prop := api.ToolProperty{}
	if schema == nil {
		return prop
	}
	if schema.Type != "" {
		prop.Type = api.PropertyType{schema.Type}
	}
	prop.Description = schema.Description
	for _, v := range schema.Enum {
		prop.Enum = append(prop.Enum, v)
	}
	return prop
}

// FromToolCalls converts Ollama tool calls to the unified shape. Ollama
// assigns no call ids, so one is synthesized per call.
func FromToolCalls(calls []api.ToolCall) []llm.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	return lo.Map(calls, func(call api.ToolCall, _ int) llm.ToolCall {
		args, err := json.Marshal(call.Function.Arguments)
		if err != nil || len(args) == 0 {
			args = []byte("{}")
		}
		return llm.ToolCall{
			ID:   "call_" + uuid.NewString(),
			Type: llm.ToolCallTypeFunction,
			Function: llm.FunctionCall{
				Name:      call.Function.Name,
				Arguments: string(args),
			},
		}
	})
}

func decodeArguments(raw string) (api.ToolCallFunctionArguments, error) {
	args := api.ToolCallFunctionArguments{}
	if raw == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}
