package llm

import (
	"context"
	"strings"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
)

// ProviderType represents the generation backend
type ProviderType string

const (
	// ProviderOllama uses a local Ollama server
	ProviderOllama ProviderType = "ollama"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Messages    []interfaces.Message
	Model       string
	Temperature float32
	MaxTokens   int
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Provider makes a single generation request against one backend.
// Implementations do not retry and return *GenerationError where they can
// classify the failure themselves.
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
// - "claude-sonnet-4-20250514" -> Claude
// - "claude/claude-sonnet-4-20250514" -> Claude (with prefix)
// - "gemini-2.5-flash" -> Gemini
// - "gemini/gemini-2.5-flash" -> Gemini (with prefix)
// - "ollama/llama3" -> Ollama (with prefix)
// - anything else -> the configured default provider
func DetectProvider(model string, defaultProvider common.LLMProvider) ProviderType {
	model = strings.ToLower(strings.TrimSpace(model))

	switch {
	case strings.HasPrefix(model, "ollama/"):
		return ProviderOllama
	case strings.HasPrefix(model, "claude/"), strings.HasPrefix(model, "anthropic/"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini/"), strings.HasPrefix(model, "google/"):
		return ProviderGemini
	case strings.HasPrefix(model, "claude-"):
		return ProviderClaude
	case strings.HasPrefix(model, "gemini-"):
		return ProviderGemini
	}

	if defaultProvider == "" {
		return ProviderOllama
	}
	return ProviderType(defaultProvider)
}

// NormalizeModel removes provider prefix from model name if present
func NormalizeModel(model string) string {
	model = strings.TrimSpace(model)
	prefixes := []string{"ollama/", "claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}
