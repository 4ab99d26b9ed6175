// Package anthropic implements the llm.Provider interface on top of the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"sync"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/modelmux/modelmux/llm"
	"github.com/rs/zerolog"
)

// The Messages API requires max_tokens; this is the ceiling used when the
// request leaves it unset.
const defaultMaxTokens = 4096

// Client implements llm.Provider for Anthropic's API.
type Client struct {
	cfg    llm.ProviderConfig
	logger zerolog.Logger

	// sdk memoizes the lazily constructed SDK client; concurrent first
	// calls converge on a single initialization.
	sdk func() (*anthropic.Client, error)

	legacyWarn sync.Once
}

// New creates an Anthropic provider. The underlying SDK client is
// constructed lazily on first use.
func New(cfg llm.ProviderConfig, logger zerolog.Logger) *Client {
	cfg.Provider = llm.ProviderAnthropic
	c := &Client{
		cfg:    cfg,
		logger: logger.With().Str("provider", llm.ProviderAnthropic).Logger(),
	}
	c.sdk = sync.OnceValues(c.newSDKClient)
	return c
}

func (c *Client) newSDKClient() (*anthropic.Client, error) {
	apiKey := c.cfg.APIKeyOrEnv()
	if apiKey == "" {
		return nil, llm.NewAuthenticationError(llm.ProviderAnthropic, "api key is required", nil)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &client, nil
}

// Name implements llm.Provider.
func (c *Client) Name() string {
	return llm.ProviderAnthropic
}

// IsConfigured implements llm.Provider.
func (c *Client) IsConfigured() bool {
	return c.cfg.APIKeyOrEnv() != ""
}

// Chat implements llm.Provider.Chat.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := llm.ValidateRequest(llm.ProviderAnthropic, req); err != nil {
		return nil, err
	}

	sdk, err := c.sdk()
	if err != nil {
		return nil, err
	}

	params, err := c.buildParams(req)
	if err != nil {
		return nil, err
	}

	message, err := sdk.Messages.New(ctx, params)
	if err != nil {
		return nil, convertError(err)
	}

	assistantMsg := llm.Message{Role: llm.RoleAssistant}
	for _, blockUnion := range message.Content {
		switch block := blockUnion.AsAny().(type) {
		case anthropic.TextBlock:
			assistantMsg.Content += block.Text
		case anthropic.ToolUseBlock:
			assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, FromToolUseBlock(block))
		}
	}

	finishReason := fromStopReason(string(message.StopReason))
	if len(assistantMsg.ToolCalls) > 0 {
		finishReason = llm.FinishReasonToolCalls
	}

	usage := &llm.Usage{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}

	return &llm.ChatResponse{
		ID:           message.ID,
		Provider:     llm.ProviderAnthropic,
		Model:        string(message.Model),
		Message:      assistantMsg,
		FinishReason: finishReason,
		Usage:        usage,
		Created:      time.Now().UTC(),
	}, nil
}

// ChatStream implements llm.Provider.ChatStream.
func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
	if err := llm.ValidateRequest(llm.ProviderAnthropic, req); err != nil {
		return nil, err
	}

	sdk, err := c.sdk()
	if err != nil {
		return nil, err
	}

	params, err := c.buildParams(req)
	if err != nil {
		return nil, err
	}

	return newStream(sdk.Messages.NewStreaming(ctx, params)), nil
}

// buildParams translates the unified request into Messages API params.
// System messages move into the dedicated system slot; everything else stays
// in the messages array.
func (c *Client) buildParams(req *llm.ChatRequest) (anthropic.MessageNewParams, error) {
	system, conversational := splitSystem(req.Messages)

	messages, err := ToMessageParams(conversational)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.ResolveModel(req.Model)),
		MaxTokens: maxTokens,
		Messages:  messages,
		System:    buildSystemBlocks(system),
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}
	if len(req.Stop) > 0 {
		params.StopSequences = req.Stop
	}

	tools, choice, legacy := req.EffectiveTools()
	if legacy {
		c.legacyWarn.Do(func() {
			c.logger.Warn().Msg("functions/function_call are deprecated; use tools/tool_choice")
		})
	}
	if len(tools) > 0 {
		params.Tools = ToToolUnionParams(tools)
		params.ToolChoice = ToToolChoice(choice, req.ParallelToolCalls)
	}

	return params, nil
}

// splitSystem pulls system messages out of the conversation; the Messages
// API carries them in a separate field rather than as a role.
func splitSystem(msgs []llm.Message) (string, []llm.Message) {
	var system string
	conversational := make([]llm.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == llm.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		conversational = append(conversational, msg)
	}
	return system, conversational
}

// buildSystemBlocks creates the system text blocks with prompt caching
// enabled. Placing cache_control on the system block caches the full prefix
// (tools, system, messages) up to that block.
func buildSystemBlocks(system string) []anthropic.TextBlockParam {
	if system == "" {
		return nil
	}
	return []anthropic.TextBlockParam{
		{Text: system, CacheControl: anthropic.NewCacheControlEphemeralParam()},
	}
}

func fromStopReason(reason string) llm.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return llm.FinishReasonStop
	case "max_tokens":
		return llm.FinishReasonLength
	case "tool_use":
		return llm.FinishReasonToolCalls
	case "refusal":
		return llm.FinishReasonContentFilter
	default:
		return llm.FinishReasonStop
	}
}

var _ llm.Provider = (*Client)(nil)
