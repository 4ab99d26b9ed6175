package ollama

import (
	"context"

	"github.com/modelmux/modelmux/llm"
	"github.com/ollama/ollama/api"
)

// stream adapts Ollama's callback-driven chat API to the pull-based
// llm.Stream contract. The request goroutine starts on the first Next call
// and feeds responses through a channel; Close cancels the request context
// to unwind it.
type stream struct {
	ctx    context.Context
	cancel context.CancelFunc
	sdk    *api.Client
	req    *api.ChatRequest

	responses chan api.ChatResponse
	result    chan error
	started   bool

	chunk      *llm.StreamChunk
	err        error
	done       bool
	sentRole   bool
	sawToolUse bool
	toolIndex  int
}

func newStream(ctx context.Context, sdk *api.Client, req *api.ChatRequest) *stream {
	ctx, cancel := context.WithCancel(ctx)
	return &stream{
		ctx:       ctx,
		cancel:    cancel,
		sdk:       sdk,
		req:       req,
		responses: make(chan api.ChatResponse),
		result:    make(chan error, 1),
	}
}

func (s *stream) start() {
	s.started = true
	go func() {
		err := s.sdk.Chat(s.ctx, s.req, func(resp api.ChatResponse) error {
			select {
			case s.responses <- resp:
				return nil
			case <-s.ctx.Done():
				return s.ctx.Err()
			}
		})
		s.result <- err
		close(s.responses)
	}()
}

// Next implements llm.Stream.Next.
func (s *stream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if !s.started {
		s.start()
	}

	for {
		resp, ok := <-s.responses
		if !ok {
			s.done = true
			if err := <-s.result; err != nil {
				s.err = convertError(err)
			}
			return false
		}

		chunk := s.normalize(resp)
		if chunk == nil {
			continue
		}
		s.chunk = chunk
		if resp.Done {
			s.done = true
		}
		return true
	}
}

// normalize maps one Ollama response frame to at most one unified chunk.
func (s *stream) normalize(resp api.ChatResponse) *llm.StreamChunk {
	chunk := &llm.StreamChunk{Content: resp.Message.Content}

	if !s.sentRole {
		s.sentRole = true
		chunk.Role = llm.RoleAssistant
	}

	for _, call := range resp.Message.ToolCalls {
		s.sawToolUse = true
		unified := FromToolCalls([]api.ToolCall{call})[0]
		chunk.ToolCalls = append(chunk.ToolCalls, llm.ToolCallDelta{
			Index:     s.toolIndex,
			ID:        unified.ID,
			Name:      unified.Function.Name,
			Arguments: unified.Function.Arguments,
		})
		s.toolIndex++
	}

	if resp.Done {
		if s.sawToolUse {
			chunk.FinishReason = llm.FinishReasonToolCalls
		} else {
			chunk.FinishReason = llm.FinishReasonStop
		}
		return chunk
	}

	if chunk.Role == "" && chunk.Content == "" && len(chunk.ToolCalls) == 0 {
		return nil
	}
	return chunk
}

// Chunk implements llm.Stream.Chunk.
func (s *stream) Chunk() *llm.StreamChunk {
	return s.chunk
}

// Err implements llm.Stream.Err.
func (s *stream) Err() error {
	return s.err
}

// Close implements llm.Stream.Close.
func (s *stream) Close() error {
	s.cancel()
	s.done = true
	return nil
}

var _ llm.Stream = (*stream)(nil)
