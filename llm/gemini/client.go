// Package gemini implements the llm.Provider interface on top of the
// Gemini API via the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"sync"
	"time"

	"github.com/modelmux/modelmux/llm"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Client implements llm.Provider for Google's Gemini API.
type Client struct {
	cfg    llm.ProviderConfig
	logger zerolog.Logger

	mu     sync.Mutex
	sdkVal *genai.Client
	sdkErr error
	inited bool

	legacyWarn sync.Once
}

// New creates a Gemini provider. The underlying SDK client is constructed
// lazily on first use.
func New(cfg llm.ProviderConfig, logger zerolog.Logger) *Client {
	cfg.Provider = llm.ProviderGemini
	return &Client{
		cfg:    cfg,
		logger: logger.With().Str("provider", llm.ProviderGemini).Logger(),
	}
}

// sdk memoizes the SDK client. genai.NewClient takes a context, so this uses
// a mutex-guarded single-assignment cell rather than sync.OnceValues;
// concurrent first calls still converge on one initialization.
func (c *Client) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inited {
		return c.sdkVal, c.sdkErr
	}
	c.inited = true

	apiKey := c.cfg.APIKeyOrEnv()
	if apiKey == "" {
		c.sdkErr = llm.NewAuthenticationError(llm.ProviderGemini, "api key is required", nil)
		return nil, c.sdkErr
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		c.sdkErr = llm.NewAPIError(llm.ProviderGemini, "failed to initialize Gemini client", 0, err)
		return nil, c.sdkErr
	}
	c.sdkVal = client
	return client, nil
}

// Name implements llm.Provider.
func (c *Client) Name() string {
	return llm.ProviderGemini
}

// IsConfigured implements llm.Provider.
func (c *Client) IsConfigured() bool {
	return c.cfg.APIKeyOrEnv() != ""
}

// Chat implements llm.Provider.Chat.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := llm.ValidateRequest(llm.ProviderGemini, req); err != nil {
		return nil, err
	}

	sdk, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}

	model := c.cfg.ResolveModel(req.Model)
	contents, config, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := sdk.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, convertError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, llm.NewAPIError(llm.ProviderGemini, "no candidates in response", 0, nil)
	}

	candidate := resp.Candidates[0]
	message := llm.Message{Role: llm.RoleAssistant}
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			message.Content += part.Text
		}
		if part.FunctionCall != nil {
			message.ToolCalls = append(message.ToolCalls, FromFunctionCall(part.FunctionCall))
		}
	}

	finishReason := fromFinishReason(candidate.FinishReason)
	if len(message.ToolCalls) > 0 {
		finishReason = llm.FinishReasonToolCalls
	}

	var usage *llm.Usage
	if resp.UsageMetadata != nil {
		usage = &llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return &llm.ChatResponse{
		ID:           resp.ResponseID,
		Provider:     llm.ProviderGemini,
		Model:        model,
		Message:      message,
		FinishReason: finishReason,
		Usage:        usage,
		Created:      time.Now().UTC(),
	}, nil
}

// ChatStream implements llm.Provider.ChatStream.
func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
	if err := llm.ValidateRequest(llm.ProviderGemini, req); err != nil {
		return nil, err
	}

	sdk, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}

	model := c.cfg.ResolveModel(req.Model)
	contents, config, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	return newStream(sdk.Models.GenerateContentStream(ctx, model, contents, config)), nil
}

// buildRequest translates the unified request into Gemini contents + config.
// System messages move into the system_instruction slot.
func (c *Client) buildRequest(req *llm.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	contents, system, err := ToContents(req.Messages)
	if err != nil {
		return nil, nil, err
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.TopP != nil {
		config.TopP = genai.Ptr(float32(*req.TopP))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(req.Stop) > 0 {
		config.StopSequences = req.Stop
	}

	tools, choice, legacy := req.EffectiveTools()
	if legacy {
		c.legacyWarn.Do(func() {
			c.logger.Warn().Msg("functions/function_call are deprecated; use tools/tool_choice")
		})
	}
	if len(tools) > 0 {
		config.Tools = ToTools(tools)
		config.ToolConfig = ToToolConfig(choice)
	}

	return contents, config, nil
}

func fromFinishReason(reason genai.FinishReason) llm.FinishReason {
	switch reason {
	case genai.FinishReasonStop:
		return llm.FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return llm.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
		return llm.FinishReasonContentFilter
	default:
		return llm.FinishReasonStop
	}
}

var _ llm.Provider = (*Client)(nil)
