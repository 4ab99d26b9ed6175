// Package ollama implements the llm.Provider interface for a local or
// remote Ollama server. Ollama needs no API key; the provider is
// configured whenever a host can be resolved.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/modelmux/modelmux/llm"
	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

const defaultHost = "http://localhost:11434"

// Client implements llm.Provider for Ollama.
type Client struct {
	cfg    llm.ProviderConfig
	logger zerolog.Logger

	// sdk memoizes the lazily constructed API client; concurrent first
	// calls converge on a single initialization.
	sdk func() (*api.Client, error)

	legacyWarn sync.Once
}

// New creates an Ollama provider. The underlying API client is constructed
// lazily on first use.
func New(cfg llm.ProviderConfig, logger zerolog.Logger) *Client {
	cfg.Provider = llm.ProviderOllama
	c := &Client{
		cfg:    cfg,
		logger: logger.With().Str("provider", llm.ProviderOllama).Logger(),
	}
	c.sdk = sync.OnceValues(c.newSDKClient)
	return c
}

func (c *Client) host() string {
	if c.cfg.Host != "" {
		return c.cfg.Host
	}
	if env := os.Getenv("OLLAMA_HOST"); env != "" {
		return env
	}
	return defaultHost
}

func (c *Client) newSDKClient() (*api.Client, error) {
	baseURL, err := url.Parse(c.host())
	if err != nil {
		return nil, llm.NewAPIError(llm.ProviderOllama, fmt.Sprintf("invalid host %q", c.host()), 0, err)
	}
	return api.NewClient(baseURL, http.DefaultClient), nil
}

// Name implements llm.Provider.
func (c *Client) Name() string {
	return llm.ProviderOllama
}

// IsConfigured implements llm.Provider. A host always resolves (the default
// is localhost), so Ollama is considered configured unconditionally.
func (c *Client) IsConfigured() bool {
	return true
}

// Chat implements llm.Provider.Chat.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := llm.ValidateRequest(llm.ProviderOllama, req); err != nil {
		return nil, err
	}

	sdk, err := c.sdk()
	if err != nil {
		return nil, err
	}

	chatReq, err := c.buildRequest(req, false)
	if err != nil {
		return nil, err
	}

	var chatResp api.ChatResponse
	if err := sdk.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		chatResp = resp
		return nil
	}); err != nil {
		return nil, convertError(err)
	}

	message := llm.Message{
		Role:      llm.RoleAssistant,
		Content:   chatResp.Message.Content,
		ToolCalls: FromToolCalls(chatResp.Message.ToolCalls),
	}

	finishReason := llm.FinishReasonStop
	if len(message.ToolCalls) > 0 {
		finishReason = llm.FinishReasonToolCalls
	}

	return &llm.ChatResponse{
		ID:           fmt.Sprintf("ollama-%d", time.Now().UnixNano()),
		Provider:     llm.ProviderOllama,
		Model:        chatReq.Model,
		Message:      message,
		FinishReason: finishReason,
		Usage: &llm.Usage{
			PromptTokens:     chatResp.PromptEvalCount,
			CompletionTokens: chatResp.EvalCount,
			TotalTokens:      chatResp.PromptEvalCount + chatResp.EvalCount,
		},
		Created: time.Now().UTC(),
	}, nil
}

// ChatStream implements llm.Provider.ChatStream.
func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
	if err := llm.ValidateRequest(llm.ProviderOllama, req); err != nil {
		return nil, err
	}

	sdk, err := c.sdk()
	if err != nil {
		return nil, err
	}

	chatReq, err := c.buildRequest(req, true)
	if err != nil {
		return nil, err
	}

	return newStream(ctx, sdk, chatReq), nil
}

// buildRequest translates the unified request into the Ollama wire shape.
// Sampling parameters travel in the options map; system messages stay
// inline since Ollama accepts the system role natively.
func (c *Client) buildRequest(req *llm.ChatRequest, streaming bool) (*api.ChatRequest, error) {
	messages, err := ToMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	chatReq := &api.ChatRequest{
		Model:    c.cfg.ResolveModel(req.Model),
		Messages: messages,
		Stream:   &streaming,
		Options:  make(map[string]interface{}),
	}

	if req.Temperature != nil {
		chatReq.Options["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		chatReq.Options["top_p"] = *req.TopP
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = req.MaxTokens
	}
	if len(req.Stop) > 0 {
		chatReq.Options["stop"] = req.Stop
	}

	tools, choice, legacy := req.EffectiveTools()
	if legacy {
		c.legacyWarn.Do(func() {
			c.logger.Warn().Msg("functions/function_call are deprecated; use tools/tool_choice")
		})
	}
	if len(tools) > 0 {
		// Ollama has no tool_choice concept; the closest available mode to
		// "none" is omitting the tools entirely. Other modes degrade to auto.
		if choice == nil || choice.Mode != llm.ToolChoiceNone {
			chatReq.Tools = ToTools(tools)
		}
	}

	return chatReq, nil
}

var _ llm.Provider = (*Client)(nil)
