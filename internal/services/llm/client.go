package llm

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/lazyserp/CuraVie/internal/interfaces"
)

// DefaultTimeout bounds a generation call when none is configured
const DefaultTimeout = 2 * time.Minute

// ClientOptions tune a Client
type ClientOptions struct {
	Timeout     time.Duration // Bound on one call including any rate-limit wait
	RateLimit   time.Duration // Minimum spacing between calls, 0 disables pacing
	Temperature float32
	MaxTokens   int
}

// Client sends a compiled prompt to one provider and returns the reply.
// Each call is a single request: failures are logged and returned, never retried.
type Client struct {
	provider Provider
	model    string
	opts     ClientOptions
	limiter  *rate.Limiter
	logger   arbor.ILogger
}

var _ interfaces.LLMService = (*Client)(nil)

// NewClient wraps a provider
func NewClient(provider Provider, model string, opts ClientOptions, logger arbor.ILogger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c := &Client{
		provider: provider,
		model:    model,
		opts:     opts,
		logger:   logger,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.RateLimit), 1)
	}
	return c
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}

// Provider returns the backend type
func (c *Client) Provider() ProviderType {
	return c.provider.GetProviderType()
}

// Generate sends prompt as a single user message.
// Every failure is a *GenerationError.
func (c *Client) Generate(ctx context.Context, prompt string) (text string, err error) {
	providerType := c.provider.GetProviderType()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Str("provider", string(providerType)).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in generation provider")
			text = ""
			err = &GenerationError{
				Kind:     KindService,
				Provider: providerType,
				Model:    c.model,
				Err:      fmt.Errorf("provider panic: %v", r),
			}
		}
	}()

	if c.limiter != nil {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			kind := KindRateLimited
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				kind = KindTimeout
			}
			return "", c.failed(start, &GenerationError{Kind: kind, Provider: providerType, Model: c.model, Err: waitErr})
		}
	}

	c.logger.Info().
		Str("provider", string(providerType)).
		Str("model", c.model).
		Int("prompt_length", len(prompt)).
		Msg("Sending prompt to generation service")

	resp, err := c.provider.GenerateContent(ctx, &ContentRequest{
		Messages:    []interfaces.Message{{Role: "user", Content: prompt}},
		Model:       c.model,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", c.failed(start, c.wrap(ctx, providerType, err))
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", c.failed(start, &GenerationError{
			Kind:     KindEmptyResponse,
			Provider: providerType,
			Model:    c.model,
			Err:      fmt.Errorf("provider returned no text"),
		})
	}

	c.logger.Info().
		Str("provider", string(providerType)).
		Str("model", c.model).
		Int("response_length", len(resp.Text)).
		Dur("duration", time.Since(start)).
		Msg("Received response from generation service")

	return resp.Text, nil
}

// GenerateText returns the narrative, or an "Error:" message when generation fails
func (c *Client) GenerateText(ctx context.Context, prompt string) string {
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return genErr.UserMessage()
		}
		return "Error: Could not generate the health report."
	}
	return text
}

// Close releases the provider
func (c *Client) Close() error {
	return c.provider.Close()
}

// wrap turns any provider error into a GenerationError. An expired deadline
// always reads as a timeout, whatever the provider reported.
func (c *Client) wrap(ctx context.Context, providerType ProviderType, err error) *GenerationError {
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		genErr = &GenerationError{Kind: classify(err), Provider: providerType, Model: c.model, Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		genErr.Kind = KindTimeout
	}
	return genErr
}

func (c *Client) failed(start time.Time, genErr *GenerationError) *GenerationError {
	c.logger.Error().
		Str("provider", string(genErr.Provider)).
		Str("model", genErr.Model).
		Str("kind", string(genErr.Kind)).
		Int("status_code", genErr.StatusCode).
		Dur("duration", time.Since(start)).
		Err(genErr.Err).
		Msg("Error communicating with generation service")
	return genErr
}
