// Package client is the top-level entry point of modelmux. A Client wraps
// one primary provider plus an ordered list of fallbacks behind a single
// chat surface, applying per-attempt timeouts, retry with exponential
// backoff, and failover between providers.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelmux/modelmux/llm"
	"github.com/modelmux/modelmux/llm/anthropic"
	"github.com/modelmux/modelmux/llm/gemini"
	"github.com/modelmux/modelmux/llm/ollama"
	openaillm "github.com/modelmux/modelmux/llm/openai"
	"github.com/modelmux/modelmux/retry"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Config configures a Client. The embedded provider fields describe the
// primary; Fallbacks are tried in Priority order after the primary fails.
type Config struct {
	// Provider is the primary provider tag: "openai", "anthropic",
	// "gemini", or "ollama".
	Provider string `yaml:"provider"`

	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`
	Organization string `yaml:"organization,omitempty"`
	Host         string `yaml:"host,omitempty"`
	Model        string `yaml:"model,omitempty"`

	Fallbacks []llm.FallbackConfig `yaml:"fallbacks,omitempty"`

	// Retry controls per-provider retry behavior. Nil means defaults.
	Retry *retry.Config `yaml:"retry,omitempty"`

	// Timeout bounds each individual provider attempt. Zero leaves
	// attempts unbounded except by the request context.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	Debug bool `yaml:"debug,omitempty"`

	// Logger, when set, replaces the default stderr logger.
	Logger *zerolog.Logger `yaml:"-"`
}

func (c Config) primary() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider:     c.Provider,
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		Organization: c.Organization,
		Host:         c.Host,
		Model:        c.Model,
	}
}

// Client multiplexes chat requests across a primary provider and its
// fallbacks. A Client is safe for concurrent use.
type Client struct {
	providers []llm.Provider
	retryCfg  *retry.Config
	timeout   time.Duration

	mu     sync.RWMutex
	logger zerolog.Logger

	legacyWarn sync.Once
}

// log snapshots the current logger so SetDebug can swap it concurrently.
func (c *Client) log() *zerolog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := c.logger
	return &l
}

// New builds a Client from cfg. The provider chain is fixed at construction:
// the primary first, then fallbacks sorted by ascending Priority (ties keep
// their declaration order). An unknown provider tag anywhere in the chain is
// an invalid_request error.
func New(cfg Config) (*Client, error) {
	if cfg.Provider == "" {
		return nil, llm.NewInvalidRequestError("", "provider is required", nil)
	}

	logger := zerolog.New(zerolog.NewConsoleWriter()).With().
		Timestamp().Str("component", "modelmux").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	}

	retryCfg := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryCfg = cfg.Retry
	}

	c := &Client{
		retryCfg: retryCfg,
		timeout:  cfg.Timeout,
		logger:   logger,
	}

	primary, err := buildProvider(cfg.primary(), logger)
	if err != nil {
		return nil, err
	}
	c.providers = append(c.providers, primary)

	for _, fb := range llm.SortFallbacks(cfg.Fallbacks) {
		provider, err := buildProvider(fb.ProviderConfig, logger)
		if err != nil {
			return nil, err
		}
		c.providers = append(c.providers, provider)
	}

	return c, nil
}

// buildProvider instantiates one adapter from its config tag.
func buildProvider(cfg llm.ProviderConfig, logger zerolog.Logger) (llm.Provider, error) {
	switch cfg.Provider {
	case llm.ProviderOpenAI:
		return openaillm.New(cfg, logger), nil
	case llm.ProviderAnthropic:
		return anthropic.New(cfg, logger), nil
	case llm.ProviderGemini:
		return gemini.New(cfg, logger), nil
	case llm.ProviderOllama:
		return ollama.New(cfg, logger), nil
	default:
		return nil, llm.NewInvalidRequestError("",
			fmt.Sprintf("unsupported provider %q (supported: %v)", cfg.Provider, llm.SupportedProviders()), nil)
	}
}

// Provider returns the primary provider's name.
func (c *Client) Provider() string {
	return c.providers[0].Name()
}

// Providers returns the full failover chain in attempt order.
func (c *Client) Providers() []string {
	return lo.Map(c.providers, func(p llm.Provider, _ int) string {
		return p.Name()
	})
}

// IsConfigured reports whether the named provider in the chain has the
// credentials it needs. Unknown names report false.
func (c *Client) IsConfigured(name string) bool {
	for _, p := range c.providers {
		if p.Name() == name {
			return p.IsConfigured()
		}
	}
	return false
}

// SetDebug toggles debug logging at runtime.
func (c *Client) SetDebug(debug bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if debug {
		c.logger = c.logger.Level(zerolog.DebugLevel)
	} else {
		c.logger = c.logger.Level(zerolog.InfoLevel)
	}
}

// warnLegacy logs the deprecation warning for the legacy function-calling
// fields at most once per Client.
func (c *Client) warnLegacy(req *llm.ChatRequest) {
	if _, _, legacy := req.EffectiveTools(); legacy {
		c.legacyWarn.Do(func() {
			c.log().Warn().Msg("functions/function_call are deprecated; use tools/tool_choice")
		})
	}
}

// Chat sends a chat request through the provider chain. Each provider gets
// the full retry budget before the next one is tried; the first success
// wins. When every provider fails, the error from the last one tried is
// returned.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	if err := llm.ValidateRequest(c.Provider(), req); err != nil {
		return nil, err
	}
	c.warnLegacy(req)

	var lastErr error
	for i, provider := range c.providers {
		if i > 0 {
			c.log().Info().
				Str("provider", provider.Name()).
				Err(lastErr).
				Msg("falling back to next provider")
		}

		resp, err := retry.DoWithTimeout(ctx, c.retryCfg, c.timeout, nil,
			func(ctx context.Context) (*llm.ChatResponse, error) {
				return provider.Chat(ctx, req)
			})
		if err == nil {
			return resp, nil
		}

		lastErr = stampProvider(err, provider.Name())
		c.log().Debug().
			Str("provider", provider.Name()).
			Err(lastErr).
			Msg("provider attempt failed")
	}

	if lastErr == nil {
		lastErr = llm.NewUnknownError("", "no provider produced a result", nil)
	}
	return nil, lastErr
}

// ChatStream opens a streaming chat through the provider chain. Failover
// covers both opening the stream and mid-stream failures: when a provider's
// stream breaks partway, the next provider is asked to stream the same
// request from the start. Chunks already yielded are not retracted, so the
// caller sees a clean break followed by the fallback's fresh stream. Stream
// opening is not retried.
func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.Stream, error) {
	if err := llm.ValidateRequest(c.Provider(), req); err != nil {
		return nil, err
	}
	c.warnLegacy(req)

	stream, idx, err := c.openStream(ctx, req, 0)
	if err != nil {
		return nil, err
	}
	return &failoverStream{
		ctx:     ctx,
		req:     req,
		client:  c,
		current: stream,
		idx:     idx,
	}, nil
}

// openStream tries providers[from:] in order until one opens a stream,
// returning the stream and the index of the provider that produced it.
func (c *Client) openStream(ctx context.Context, req *llm.ChatRequest, from int) (llm.Stream, int, error) {
	var lastErr error
	for i := from; i < len(c.providers); i++ {
		provider := c.providers[i]
		if i > from {
			c.log().Info().
				Str("provider", provider.Name()).
				Err(lastErr).
				Msg("falling back to next provider for stream")
		}

		stream, err := provider.ChatStream(ctx, req)
		if err == nil {
			return stream, i, nil
		}
		lastErr = stampProvider(err, provider.Name())
	}

	if lastErr == nil {
		lastErr = llm.NewUnknownError("", "no provider produced a stream", nil)
	}
	return nil, 0, lastErr
}

// failoverStream wraps a provider stream and, when it fails partway, resumes
// with the next provider in the chain streaming the same request from the
// start. Only the final provider's failure reaches the caller through Err.
type failoverStream struct {
	ctx     context.Context
	req     *llm.ChatRequest
	client  *Client
	current llm.Stream
	idx     int
	err     error
	done    bool
}

func (s *failoverStream) Next() bool {
	if s.done {
		return false
	}
	for {
		if s.current.Next() {
			return true
		}
		err := s.current.Err()
		if err == nil {
			s.done = true
			return false
		}

		failed := s.client.providers[s.idx].Name()
		err = stampProvider(err, failed)
		if s.idx+1 >= len(s.client.providers) {
			s.err = err
			s.done = true
			return false
		}

		s.client.log().Info().
			Str("provider", failed).
			Err(err).
			Msg("stream broke, restarting on next provider")
		s.current.Close()

		next, idx, openErr := s.client.openStream(s.ctx, s.req, s.idx+1)
		if openErr != nil {
			s.err = openErr
			s.done = true
			return false
		}
		s.current = next
		s.idx = idx
	}
}

func (s *failoverStream) Chunk() *llm.StreamChunk { return s.current.Chunk() }
func (s *failoverStream) Err() error              { return s.err }
func (s *failoverStream) Close() error            { return s.current.Close() }

var _ llm.Stream = (*failoverStream)(nil)

// stampProvider fills in the provider field on unified errors that were
// produced above the adapter layer, such as attempt timeouts.
func stampProvider(err error, provider string) error {
	if unified, ok := llm.AsError(err); ok && unified.Provider == "" {
		unified.Provider = provider
	}
	return err
}
