package anthropic

import (
	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/modelmux/modelmux/llm"
)

// stream adapts an Anthropic SSE stream to the llm.Stream interface.
// Content block indexes from the wire become tool-call fragment indexes, so
// input_json_delta events arrive as concatenatable argument fragments.
type stream struct {
	upstream   *ssestream.Stream[anthropic.MessageStreamEventUnion]
	chunk      *llm.StreamChunk
	err        error
	done       bool
	started    bool
	sawToolUse bool
	stopReason string
}

func newStream(upstream *ssestream.Stream[anthropic.MessageStreamEventUnion]) *stream {
	return &stream{upstream: upstream}
}

// Next implements llm.Stream.
func (s *stream) Next() bool {
	if s.done {
		return false
	}
	for s.upstream.Next() {
		event := s.upstream.Current()

		switch evt := event.AsAny().(type) {
		case anthropic.MessageStartEvent:
			if !s.started {
				s.started = true
				s.chunk = &llm.StreamChunk{Role: llm.RoleAssistant}
				return true
			}

		case anthropic.ContentBlockStartEvent:
			if block, ok := evt.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
				s.sawToolUse = true
				s.chunk = &llm.StreamChunk{
					ToolCalls: []llm.ToolCallDelta{{
						Index: int(evt.Index),
						ID:    block.ID,
						Name:  block.Name,
					}},
				}
				return true
			}

		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text != "" {
					s.chunk = &llm.StreamChunk{Content: delta.Text}
					return true
				}
			case anthropic.InputJSONDelta:
				if delta.PartialJSON != "" {
					s.chunk = &llm.StreamChunk{
						ToolCalls: []llm.ToolCallDelta{{
							Index:     int(evt.Index),
							Arguments: delta.PartialJSON,
						}},
					}
					return true
				}
			}

		case anthropic.MessageDeltaEvent:
			s.stopReason = string(evt.Delta.StopReason)

		case anthropic.MessageStopEvent:
			finish := fromStopReason(s.stopReason)
			if s.sawToolUse {
				finish = llm.FinishReasonToolCalls
			}
			s.chunk = &llm.StreamChunk{FinishReason: finish}
			s.done = true
			return true
		}
	}

	s.done = true
	if err := s.upstream.Err(); err != nil {
		s.err = convertError(err)
	}
	return false
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

var _ llm.Stream = (*stream)(nil)
