package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
)

// convertMessagesToGemini converts messages to Gemini's content format.
// System messages are returned separately as the system instruction.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	if len(contents) == 0 {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	return contents, systemText, nil
}

// GeminiProvider generates content with the Google Gemini API
type GeminiProvider struct {
	client      *genai.Client
	temperature float32
	logger      arbor.ILogger
}

// NewGeminiProvider creates a Gemini provider, resolving the API key from
// the environment first and the config second.
func NewGeminiProvider(ctx context.Context, cfg *common.GeminiConfig, logger arbor.ILogger) (*GeminiProvider, error) {
	apiKey, err := common.ResolveAPIKey("gemini_api_key", cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// GenerateContent makes a single GenerateContent call
func (p *GeminiProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	contents, systemText, err := convertMessagesToGemini(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = p.temperature
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	if err != nil {
		genErr := &GenerationError{Kind: classify(err), Provider: ProviderGemini, Model: request.Model, Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			genErr.StatusCode = apiErr.Code
			genErr.Kind = kindForStatus(apiErr.Code)
		}
		if genErr.Kind == KindRateLimited {
			genErr.RetryAfter = ExtractRetryDelay(err)
		}
		return nil, genErr
	}

	if resp == nil || len(resp.Candidates) == 0 || strings.TrimSpace(resp.Text()) == "" {
		return nil, &GenerationError{
			Kind:     KindEmptyResponse,
			Provider: ProviderGemini,
			Model:    request.Model,
			Err:      fmt.Errorf("empty text in Gemini response"),
		}
	}

	return &ContentResponse{
		Text:     resp.Text(),
		Provider: ProviderGemini,
		Model:    request.Model,
	}, nil
}

func (p *GeminiProvider) GetProviderType() ProviderType {
	return ProviderGemini
}

func (p *GeminiProvider) Close() error {
	p.client = nil
	return nil
}
