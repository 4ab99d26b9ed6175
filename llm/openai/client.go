// Package openai implements the llm.Provider interface on top of the
// OpenAI chat completions API.
package openai

import (
	"context"
	"sync"
	"time"

	"github.com/modelmux/modelmux/llm"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Client implements llm.Provider for OpenAI and OpenAI-compatible endpoints.
type Client struct {
	cfg    llm.ProviderConfig
	logger zerolog.Logger

	// sdk memoizes the lazily constructed SDK client; concurrent first
	// calls converge on a single initialization.
	sdk func() (*openai.Client, error)

	legacyWarn sync.Once
}

// New creates an OpenAI provider. The underlying SDK client is constructed
// lazily on first use.
func New(cfg llm.ProviderConfig, logger zerolog.Logger) *Client {
	cfg.Provider = llm.ProviderOpenAI
	c := &Client{
		cfg:    cfg,
		logger: logger.With().Str("provider", llm.ProviderOpenAI).Logger(),
	}
	c.sdk = sync.OnceValues(c.newSDKClient)
	return c
}

func (c *Client) newSDKClient() (*openai.Client, error) {
	apiKey := c.cfg.APIKeyOrEnv()
	if apiKey == "" {
		return nil, llm.NewAuthenticationError(llm.ProviderOpenAI, "api key is required", nil)
	}

	conf := openai.DefaultConfig(apiKey)
	if c.cfg.BaseURL != "" {
		conf.BaseURL = c.cfg.BaseURL
	}
	if c.cfg.Organization != "" {
		conf.OrgID = c.cfg.Organization
	}
	return openai.NewClientWithConfig(conf), nil
}

// Name implements llm.Provider.
func (c *Client) Name() string {
	return llm.ProviderOpenAI
}

// IsConfigured implements llm.Provider.
func (c *Client) IsConfigured() bool {
	return c.cfg.APIKeyOrEnv() != ""
}

// Chat implements llm.Provider.Chat.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := llm.ValidateRequest(llm.ProviderOpenAI, req); err != nil {
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

	chatResp, err := sdk.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, convertError(err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, llm.NewAPIError(llm.ProviderOpenAI, "no choices in response", 0, nil)
	}

	choice := chatResp.Choices[0]
	message := llm.Message{
		Role:      llm.RoleAssistant,
		Content:   choice.Message.Content,
		ToolCalls: FromToolCalls(choice.Message.ToolCalls),
	}

	finishReason := fromFinishReason(choice.FinishReason)
	if len(message.ToolCalls) > 0 {
		// The vendor stop reason is unreliable when tools fire.
		finishReason = llm.FinishReasonToolCalls
	}

	return &llm.ChatResponse{
		ID:           chatResp.ID,
		Provider:     llm.ProviderOpenAI,
		Model:        chatResp.Model,
		Message:      message,
		FinishReason: finishReason,
		Usage: &llm.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
		Created: time.Unix(chatResp.Created, 0),
	}, nil
}

// ChatStream implements llm.Provider.ChatStream.
func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
	if err := llm.ValidateRequest(llm.ProviderOpenAI, req); err != nil {
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

	stream, err := sdk.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return nil, convertError(err)
	}
	return newStream(stream), nil
}

// buildRequest translates the unified request into the OpenAI wire shape.
func (c *Client) buildRequest(req *llm.ChatRequest, streaming bool) (openai.ChatCompletionRequest, error) {
	messages, err := ToMessages(req.Messages)
	if err != nil {
		return openai.ChatCompletionRequest{}, err
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    c.cfg.ResolveModel(req.Model),
		Messages: messages,
		Stream:   streaming,
	}

	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		chatReq.TopP = float32(*req.TopP)
	}
	if req.FrequencyPenalty != nil {
		chatReq.FrequencyPenalty = float32(*req.FrequencyPenalty)
	}
	if req.PresencePenalty != nil {
		chatReq.PresencePenalty = float32(*req.PresencePenalty)
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if len(req.Stop) > 0 {
		chatReq.Stop = req.Stop
	}

	tools, choice, legacy := req.EffectiveTools()
	if legacy {
		c.legacyWarn.Do(func() {
			c.logger.Warn().Msg("functions/function_call are deprecated; use tools/tool_choice")
		})
	}
	if len(tools) > 0 {
		chatReq.Tools = ToTools(tools)
		chatReq.ToolChoice = ToToolChoice(choice)
		if req.ParallelToolCalls != nil {
			chatReq.ParallelToolCalls = *req.ParallelToolCalls
		}
	}

	return chatReq, nil
}

func fromFinishReason(reason openai.FinishReason) llm.FinishReason {
	switch reason {
	case openai.FinishReasonStop:
		return llm.FinishReasonStop
	case openai.FinishReasonLength:
		return llm.FinishReasonLength
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		return llm.FinishReasonToolCalls
	case openai.FinishReasonContentFilter:
		return llm.FinishReasonContentFilter
	default:
		return llm.FinishReasonStop
	}
}

var _ llm.Provider = (*Client)(nil)
