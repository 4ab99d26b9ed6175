package gemini

import (
	"iter"

	"github.com/modelmux/modelmux/llm"
	"google.golang.org/genai"
)

// stream adapts Gemini's streaming iterator to the llm.Stream interface.
// Gemini delivers complete function call arguments per event rather than
// token-by-token fragments; each call is still re-emitted as an indexed
// fragment so the caller-side concatenation contract holds across providers.
type stream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()

	chunk      *llm.StreamChunk
	err        error
	done       bool
	finished   bool
	sawToolUse bool
	toolIndex  int
}

func newStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(seq)
	return &stream{next: next, stop: stop}
}

// Next implements llm.Stream.
func (s *stream) Next() bool {
	if s.done {
		return false
	}
	for {
		resp, err, ok := s.next()
		if !ok {
			s.done = true
			return s.emitPendingFinish()
		}
		if err != nil {
			s.done = true
			s.err = convertError(err)
			return false
		}

		chunk, ok := s.normalize(resp)
		if !ok {
			continue
		}
		s.chunk = chunk
		return true
	}
}

// normalize maps one native response event to at most one chunk.
func (s *stream) normalize(resp *genai.GenerateContentResponse) (*llm.StreamChunk, bool) {
	if len(resp.Candidates) == 0 {
		return nil, false
	}
	candidate := resp.Candidates[0]

	chunk := &llm.StreamChunk{}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				chunk.Content += part.Text
			}
			if part.FunctionCall != nil {
				s.sawToolUse = true
				call := FromFunctionCall(part.FunctionCall)
				chunk.ToolCalls = append(chunk.ToolCalls, llm.ToolCallDelta{
					Index:     s.toolIndex,
					ID:        call.ID,
					Name:      call.Function.Name,
					Arguments: call.Function.Arguments,
				})
				s.toolIndex++
			}
		}
	}

	if candidate.FinishReason != "" && !s.finished {
		s.finished = true
		finish := fromFinishReason(candidate.FinishReason)
		if s.sawToolUse {
			finish = llm.FinishReasonToolCalls
		}
		chunk.FinishReason = finish
	}

	if chunk.Content == "" && len(chunk.ToolCalls) == 0 && chunk.FinishReason == "" {
		return nil, false
	}
	return chunk, true
}

// emitPendingFinish synthesizes a terminal chunk when the upstream iterator
// ends without ever reporting a finish reason.
func (s *stream) emitPendingFinish() bool {
	if s.finished {
		return false
	}
	s.finished = true
	finish := llm.FinishReasonStop
	if s.sawToolUse {
		finish = llm.FinishReasonToolCalls
	}
	s.chunk = &llm.StreamChunk{FinishReason: finish}
	return true
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
	if s.stop != nil {
		s.stop()
	}
	return nil
}

var _ llm.Stream = (*stream)(nil)
