package openai

import (
	"testing"

	"github.com/modelmux/modelmux/llm"
	openai "github.com/sashabaranov/go-openai"
)

func TestNormalizeChunkContent(t *testing.T) {
	chunk, ok := normalizeChunk(openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{
			Delta: openai.ChatCompletionStreamChoiceDelta{Role: "assistant", Content: "Hel"},
		}},
	})
	if !ok {
		t.Fatal("expected a chunk")
	}
	if chunk.Role != llm.RoleAssistant || chunk.Content != "Hel" {
		t.Errorf("chunk = %+v", chunk)
	}
}

func TestNormalizeChunkToolCallFragments(t *testing.T) {
	index := 0
	first, ok := normalizeChunk(openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{
			Delta: openai.ChatCompletionStreamChoiceDelta{
				ToolCalls: []openai.ToolCall{{
					Index:    &index,
					ID:       "call_1",
					Function: openai.FunctionCall{Name: "get_weather", Arguments: `{"loc`},
				}},
			},
		}},
	})
	if !ok {
		t.Fatal("expected a chunk")
	}
	second, ok := normalizeChunk(openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{
			Delta: openai.ChatCompletionStreamChoiceDelta{
				ToolCalls: []openai.ToolCall{{
					Index:    &index,
					Function: openai.FunctionCall{Arguments: `ation":"Tokyo"}`},
				}},
			},
		}},
	})
	if !ok {
		t.Fatal("expected a second chunk")
	}

	if first.ToolCalls[0].Index != second.ToolCalls[0].Index {
		t.Error("fragments of one call must share an index")
	}
	joined := first.ToolCalls[0].Arguments + second.ToolCalls[0].Arguments
	if joined != `{"location":"Tokyo"}` {
		t.Errorf("concatenated arguments = %q", joined)
	}
}

func TestNormalizeChunkFinishReason(t *testing.T) {
	chunk, ok := normalizeChunk(openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{
			FinishReason: openai.FinishReasonStop,
		}},
	})
	if !ok {
		t.Fatal("expected terminal chunk")
	}
	if chunk.FinishReason != llm.FinishReasonStop {
		t.Errorf("finish reason = %q", chunk.FinishReason)
	}
}

func TestNormalizeChunkSkipsEmptyEvents(t *testing.T) {
	if _, ok := normalizeChunk(openai.ChatCompletionStreamResponse{}); ok {
		t.Error("event without choices should be skipped")
	}
	if _, ok := normalizeChunk(openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{{}},
	}); ok {
		t.Error("empty delta should be skipped")
	}
}
