package openai

import (
	"errors"
	"io"

	"github.com/modelmux/modelmux/llm"
	openai "github.com/sashabaranov/go-openai"
)

// stream adapts an OpenAI completion stream to the llm.Stream interface.
// Each native event maps to zero or one normalized chunk; tool-call argument
// fragments are re-emitted with their upstream index so the caller can
// concatenate per index.
type stream struct {
	upstream *openai.ChatCompletionStream
	chunk    *llm.StreamChunk
	err      error
	done     bool
	finished bool // a terminal chunk has been emitted
}

func newStream(upstream *openai.ChatCompletionStream) *stream {
	return &stream{upstream: upstream}
}

// Next implements llm.Stream.
func (s *stream) Next() bool {
	if s.done {
		return false
	}
	for {
		response, err := s.upstream.Recv()
		if err != nil {
			s.done = true
			if errors.Is(err, io.EOF) {
				return false
			}
			s.err = convertError(err)
			return false
		}

		chunk, ok := normalizeChunk(response)
		if !ok {
			continue
		}
		if chunk.FinishReason != "" {
			if s.finished {
				chunk.FinishReason = ""
			}
			s.finished = true
		}
		s.chunk = chunk
		return true
	}
}

// Chunk implements llm.Stream.
func (s *stream) Chunk() *llm.StreamChunk {
	return s.chunk
}

// Err implements llm.Stream.
func (s *stream) Err() error {
	return s.err
}

// Close implements llm.Stream.
func (s *stream) Close() error {
	s.done = true
	if s.upstream != nil {
		return s.upstream.Close()
	}
	return nil
}

// normalizeChunk maps one native stream event to at most one StreamChunk.
func normalizeChunk(response openai.ChatCompletionStreamResponse) (*llm.StreamChunk, bool) {
	if len(response.Choices) == 0 {
		return nil, false
	}
	choice := response.Choices[0]

	chunk := &llm.StreamChunk{
		Role:    llm.Role(choice.Delta.Role),
		Content: choice.Delta.Content,
	}

	for _, tc := range choice.Delta.ToolCalls {
		delta := llm.ToolCallDelta{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
		if tc.Index != nil {
			delta.Index = *tc.Index
		}
		chunk.ToolCalls = append(chunk.ToolCalls, delta)
	}

	if choice.FinishReason != "" {
		chunk.FinishReason = fromFinishReason(choice.FinishReason)
	}

	if chunk.Role == "" && chunk.Content == "" && len(chunk.ToolCalls) == 0 && chunk.FinishReason == "" {
		return nil, false
	}
	return chunk, true
}

var _ llm.Stream = (*stream)(nil)
