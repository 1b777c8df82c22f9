package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
)

const ollamaChatPath = "/api/chat"

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
}

type ollamaChatRequest struct {
	Model    string               `json:"model"`
	Messages []interfaces.Message `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  *ollamaOptions       `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model   string             `json:"model"`
	Message interfaces.Message `json:"message"`
	Done    bool               `json:"done"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

// OllamaProvider talks to a local Ollama server over its chat API
type OllamaProvider struct {
	client      *resty.Client
	temperature float32
	logger      arbor.ILogger
}

// NewOllamaProvider creates a provider for the Ollama server at cfg.BaseURL.
// The HTTP client has no timeout or retry of its own; the caller's context bounds each call.
func NewOllamaProvider(cfg *common.OllamaConfig, logger arbor.ILogger) *OllamaProvider {
	client := resty.New().
		SetBaseURL(normalizeBaseURL(cfg.BaseURL)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &OllamaProvider{
		client:      client,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// GenerateContent sends one non-streaming chat request
func (p *OllamaProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	body := ollamaChatRequest{
		Model:    request.Model,
		Messages: request.Messages,
		Stream:   false,
	}
	temp := request.Temperature
	if temp <= 0 {
		temp = p.temperature
	}
	if temp > 0 {
		body.Options = &ollamaOptions{Temperature: temp}
	}

	var result ollamaChatResponse
	var apiErr ollamaErrorResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post(ollamaChatPath)

	if err != nil {
		kind := classify(err)
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, &GenerationError{Kind: kind, Provider: ProviderOllama, Model: request.Model, Err: err}
	}

	if resp.IsError() {
		msg := strings.TrimSpace(apiErr.Error)
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		p.logger.Warn().
			Int("status_code", resp.StatusCode()).
			Str("model", request.Model).
			Str("error", msg).
			Msg("Ollama returned an error")
		return nil, &GenerationError{
			Kind:       kindForStatus(resp.StatusCode()),
			Provider:   ProviderOllama,
			Model:      request.Model,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("ollama: %s", msg),
		}
	}

	text := strings.TrimSpace(result.Message.Content)
	if text == "" {
		return nil, &GenerationError{
			Kind:       KindEmptyResponse,
			Provider:   ProviderOllama,
			Model:      request.Model,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("empty message in Ollama response"),
		}
	}

	return &ContentResponse{
		Text:     result.Message.Content,
		Provider: ProviderOllama,
		Model:    request.Model,
	}, nil
}

func (p *OllamaProvider) GetProviderType() ProviderType {
	return ProviderOllama
}

func (p *OllamaProvider) Close() error {
	return nil
}

// normalizeBaseURL accepts OLLAMA_HOST style values without a scheme
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return "http://localhost:11434"
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return baseURL
}
