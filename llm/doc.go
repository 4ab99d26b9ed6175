// Package llm provides a provider-neutral abstraction layer for Large Language Model (LLM) chat APIs.
//
// This package defines the common request/response types, the error taxonomy, and the
// Provider interface that allow callers to work with multiple LLM vendors (OpenAI,
// Anthropic, Gemini, Ollama, etc.) without being tightly coupled to any specific
// provider's SDK.
//
// # Core Concepts
//
//  1. Messages: the Message type represents one conversation turn with a role
//     (system, user, assistant, tool), text content, and optional tool calls.
//
//  2. Tools: ToolDefinition describes a function exposed to the model with a
//     JSON-Schema-like parameter tree; ToolCall is a function invocation emitted
//     by the model with its arguments kept as a raw JSON string.
//
//  3. Provider Interface: the Provider interface exposes Chat() for non-streaming
//     calls and ChatStream() for streaming calls. Implementations handle
//     vendor-specific translation internally.
//
//  4. Streams: the Stream interface yields StreamChunk values in upstream order.
//     Tool-call arguments may arrive split across many chunks; fragments share an
//     index and are concatenated by the caller.
//
//  5. Errors: the Error type provides provider-neutral error handling with a
//     closed set of kinds and a retryable flag. Adapters never leak raw vendor
//     errors across the package boundary.
//
// Usage Example
//
//	provider, err := openai.New(llm.ProviderConfig{APIKey: key}, logger)
//
//	resp, err := provider.Chat(ctx, &llm.ChatRequest{
//	    Model: "gpt-4o",
//	    Messages: []llm.Message{
//	        llm.UserMessage("Hello!"),
//	    },
//	})
//
// # Extension Points
//
// To add a new LLM provider:
//  1. Implement the Provider interface
//  2. Translate between vendor-specific types and llm package types
//  3. Classify vendor errors into the llm.Error taxonomy
//  4. Register the provider name and its default model in registry.go
package llm
