package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
)

// NewProvider creates the provider implied by the configured model and default provider
func NewProvider(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (Provider, error) {
	providerType := DetectProvider(cfg.LLM.Model, cfg.LLM.DefaultProvider)

	switch providerType {
	case ProviderOllama:
		return NewOllamaProvider(&cfg.Ollama, logger), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, &cfg.Gemini, logger)
	case ProviderClaude:
		return NewClaudeProvider(&cfg.Claude, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// NewClientFromConfig creates the generation client used by the report pipeline
func NewClientFromConfig(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*Client, error) {
	provider, err := NewProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	timeout, err := common.ParseDuration(cfg.LLM.Timeout, DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid llm.timeout: %w", err)
	}
	rateLimit, err := common.ParseDuration(cfg.LLM.RateLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid llm.rate_limit: %w", err)
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	model := NormalizeModel(cfg.LLM.Model)

	logger.Info().
		Str("provider", string(provider.GetProviderType())).
		Str("model", model).
		Dur("timeout", timeout).
		Dur("rate_limit", rateLimit).
		Msg("Generation client initialized")

	return NewClient(provider, model, ClientOptions{
		Timeout:   timeout,
		RateLimit: rateLimit,
	}, logger), nil
}
