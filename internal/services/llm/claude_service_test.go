package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
)

const claudeTestModel = "claude-sonnet-4-20250514"

func newClaudeTestProvider(t *testing.T, url string) *ClaudeProvider {
	t.Helper()
	for _, key := range []string{"CURAVIE_CLAUDE_API_KEY", "ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "ANTHROPIC_AUTH_TOKEN"} {
		t.Setenv(key, "")
	}
	provider, err := NewClaudeProvider(&common.ClaudeConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		MaxTokens:   256,
		Temperature: 0.7,
	}, arbor.NewLogger())
	require.NoError(t, err)
	return provider
}

func claudeRequest() *ContentRequest {
	return &ContentRequest{
		Model: claudeTestModel,
		Messages: []interfaces.Message{
			{Role: "system", Content: "You are a medical report writer."},
			{Role: "user", Content: "hello"},
		},
	}
}

func claudeReply(text string) string {
	return `{"id":"msg_1","type":"message","role":"assistant","model":"` + claudeTestModel + `",` +
		`"content":[{"type":"text","text":` + mustJSON(text) + `}],` +
		`"stop_reason":"end_turn","usage":{"input_tokens":12,"output_tokens":4}}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestClaudeProvider_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody struct {
		Model     string  `json:"model"`
		MaxTokens int     `json:"max_tokens"`
		Temp      float64 `json:"temperature"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claudeReply("Summary: stable.")))
	}))
	defer srv.Close()

	resp, err := newClaudeTestProvider(t, srv.URL).GenerateContent(context.Background(), claudeRequest())
	require.NoError(t, err)

	assert.Equal(t, "Summary: stable.", resp.Text)
	assert.Equal(t, ProviderClaude, resp.Provider)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, claudeTestModel, gotBody.Model)
	assert.Equal(t, 256, gotBody.MaxTokens)
	assert.InDelta(t, 0.7, gotBody.Temp, 0.001)
	require.Len(t, gotBody.System, 1)
	assert.Equal(t, "You are a medical report writer.", gotBody.System[0].Text)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
}

func TestClaudeProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorType string
		wantKind  ErrorKind
	}{
		{"rate limited", http.StatusTooManyRequests, "rate_limit_error", KindRateLimited},
		{"internal error", http.StatusInternalServerError, "api_error", KindService},
		{"overloaded", 529, "overloaded_error", KindService},
		{"gateway timeout", http.StatusGatewayTimeout, "timeout_error", KindTimeout},
		{"bad api key", http.StatusUnauthorized, "authentication_error", KindService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"` + tt.errorType + `","message":"nope"}}`))
			}))
			defer srv.Close()

			_, err := newClaudeTestProvider(t, srv.URL).GenerateContent(context.Background(), claudeRequest())
			require.Error(t, err)

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantKind, genErr.Kind)
			assert.Equal(t, tt.status, genErr.StatusCode)
			assert.Equal(t, ProviderClaude, genErr.Provider)
			assert.Equal(t, int32(1), calls.Load(), "a failed call is not retried")
		})
	}
}

func TestClaudeProvider_EmptyResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no blocks", `[]`},
		{"blank text", `[{"type":"text","text":"   "}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"` + claudeTestModel +
					`","content":` + tt.content + `,"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
			}))
			defer srv.Close()

			_, err := newClaudeTestProvider(t, srv.URL).GenerateContent(context.Background(), claudeRequest())
			assert.True(t, IsKind(err, KindEmptyResponse), "got %v", err)
		})
	}
}

func TestClaudeProvider_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClaudeTestProvider(t, url).GenerateContent(context.Background(), claudeRequest())
	assert.True(t, IsKind(err, KindTransport), "got %v", err)
}

func TestConvertMessagesToClaude(t *testing.T) {
	t.Run("roles and system text", func(t *testing.T) {
		msgs, system, err := convertMessagesToClaude([]interfaces.Message{
			{Role: "system", Content: "first system"},
			{Role: "user", Content: "question"},
			{Role: "assistant", Content: "answer"},
			{Role: "system", Content: "second system"},
		})
		require.NoError(t, err)

		assert.Equal(t, "first system", system)
		require.Len(t, msgs, 2)
		assert.Equal(t, "user", string(msgs[0].Role))
		assert.Equal(t, "assistant", string(msgs[1].Role))
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := convertMessagesToClaude(nil)
		assert.Error(t, err)
	})

	t.Run("system only", func(t *testing.T) {
		_, _, err := convertMessagesToClaude([]interfaces.Message{{Role: "system", Content: "x"}})
		assert.ErrorContains(t, err, "role 'user'")
	})
}
