package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelmux/modelmux/llm"
	"github.com/samber/lo"
	"google.golang.org/genai"
)

// ToContents converts unified messages to Gemini contents, returning the
// concatenated system instruction separately; Gemini has no system role in
// the conversation itself.
//
// Tool-response messages carry only a tool_call_id, but Gemini's function
// response envelope is keyed by function name, so a lookup table is built
// from the tool calls of prior assistant messages.
func ToContents(msgs []llm.Message) ([]*genai.Content, string, error) {
	var system string
	callNames := make(map[string]string) // tool call id -> function name

	contents := make([]*genai.Content, 0, len(msgs))
	for i, msg := range msgs {
		switch msg.Role {
		case llm.RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content

		case llm.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})

		case llm.RoleAssistant:
			parts := make([]*genai.Part, 0, 1+len(msg.ToolCalls))
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				callNames[tc.ID] = tc.Function.Name
				args, err := decodeArguments(tc.Function.Arguments)
				if err != nil {
					return nil, "", llm.NewInvalidRequestError(llm.ProviderGemini, fmt.Sprintf("messages[%d]: tool call %s: %v", i, tc.ID, err), err)
				}
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Function.Name, Args: args},
				})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})

		case llm.RoleTool:
			name, ok := callNames[msg.ToolCallID]
			if !ok {
				return nil, "", llm.NewInvalidRequestError(llm.ProviderGemini, fmt.Sprintf("messages[%d]: tool_call_id %q has no matching assistant tool call", i, msg.ToolCallID), nil)
			}
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.ToolCallID,
						Name:     name,
						Response: toResponseMap(msg.Content),
					},
				}},
			})

		default:
			return nil, "", llm.NewInvalidRequestError(llm.ProviderGemini, fmt.Sprintf("messages[%d]: unsupported role %q", i, msg.Role), nil)
		}
	}

	return contents, system, nil
}

// ToTools converts unified tool definitions into Gemini's function
// declarations envelope (one Tool wrapping all declarations).
func ToTools(tools []llm.ToolDefinition) []*genai.Tool {
	declarations := lo.Map(tools, func(tool llm.ToolDefinition, _ int) *genai.FunctionDeclaration {
		return &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toSchema(tool.Parameters),
		}
	})
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// ToToolConfig maps the logical tool choice onto Gemini's function calling
// modes. "required" maps to ANY; a pinned tool maps to ANY constrained to
// the one allowed function name, the closest mode Gemini offers.
func ToToolConfig(choice *llm.ToolChoice) *genai.ToolConfig {
	mode := llm.ToolChoiceAuto
	if choice != nil {
		mode = choice.Mode
	}

	fcc := &genai.FunctionCallingConfig{}
	switch mode {
	case llm.ToolChoiceNone:
		fcc.Mode = genai.FunctionCallingConfigModeNone
	case llm.ToolChoiceRequired:
		fcc.Mode = genai.FunctionCallingConfigModeAny
	case llm.ToolChoiceFunction:
		fcc.Mode = genai.FunctionCallingConfigModeAny
		fcc.AllowedFunctionNames = []string{choice.FunctionName}
	default:
		fcc.Mode = genai.FunctionCallingConfigModeAuto
	}
	return &genai.ToolConfig{FunctionCallingConfig: fcc}
}

// FromFunctionCall extracts a unified tool call from a Gemini function call
// part. Gemini often omits call ids, so a synthetic one is generated; it is
// unique within the response, which is all callers may rely on.
func FromFunctionCall(fc *genai.FunctionCall) llm.ToolCall {
	id := fc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}

	args := "{}"
	if len(fc.Args) > 0 {
		if data, err := json.Marshal(fc.Args); err == nil {
			args = string(data)
		}
	}

	return llm.ToolCall{
		ID:   id,
		Type: llm.ToolCallTypeFunction,
		Function: llm.FunctionCall{
			Name:      fc.Name,
			Arguments: args,
		},
	}
}

// toSchema converts the unified schema tree to a Gemini schema, keeping
// required, enum, and nested properties intact.
func toSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toSchemaType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	return out
}

func toSchemaType(t string) genai.Type {
	switch strings.ToLower(t) {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object", "":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// toResponseMap wraps a tool result string in the map envelope Gemini
// expects: parsed JSON objects pass through, anything else is wrapped
// under a "result" key.
func toResponseMap(content string) map[string]any {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		return parsed
	}
	return map[string]any{"result": content}
}

func decodeArguments(arguments string) (map[string]any, error) {
	if arguments == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return args, nil
}
