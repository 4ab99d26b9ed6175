package llm

import (
	"context"
)

// Provider is the provider-neutral interface for making chat API calls.
// Implementations handle vendor-specific translation internally and
// surface only classified *Error values.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() string

	// Chat sends a request and returns a complete response.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// ChatStream sends a request and returns a stream of chunks.
	// The stream is lazy, single-pass, and non-restartable; the caller
	// should read until Next returns false and then check Err.
	ChatStream(ctx context.Context, req *ChatRequest) (Stream, error)

	// IsConfigured reports whether the provider has the credentials it
	// needs to make calls.
	IsConfigured() bool
}

// Stream represents a streaming chat response.
type Stream interface {
	// Next advances to the next chunk in the stream.
	// Returns false when the stream is complete or an error occurs.
	Next() bool

	// Chunk returns the current chunk.
	// Should only be called after Next() returns true.
	Chunk() *StreamChunk

	// Err returns any error that occurred during streaming.
	Err() error

	// Close closes the stream and releases resources.
	Close() error
}
