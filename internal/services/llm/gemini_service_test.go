package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
)

const geminiTestModel = "gemini-2.5-flash"

// clearGeminiEnv keeps host credentials and endpoint overrides out of the tests
func clearGeminiEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CURAVIE_GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY",
		"GOOGLE_GEMINI_BASE_URL", "GOOGLE_GENAI_USE_VERTEXAI",
	} {
		t.Setenv(key, "")
	}
}

func newGeminiTestProvider(t *testing.T, url string) *GeminiProvider {
	t.Helper()
	clearGeminiEnv(t)
	provider, err := NewGeminiProvider(context.Background(), &common.GeminiConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		Temperature: 0.7,
	}, arbor.NewLogger())
	require.NoError(t, err)
	return provider
}

func geminiRequest() *ContentRequest {
	return &ContentRequest{
		Model: geminiTestModel,
		Messages: []interfaces.Message{
			{Role: "system", Content: "You are a medical report writer."},
			{Role: "user", Content: "hello"},
		},
	}
}

func TestGeminiProvider_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Summary: "},{"text":"stable."}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	resp, err := newGeminiTestProvider(t, srv.URL).GenerateContent(context.Background(), geminiRequest())
	require.NoError(t, err)

	assert.Equal(t, "Summary: stable.", resp.Text)
	assert.Equal(t, ProviderGemini, resp.Provider)
	assert.Equal(t, geminiTestModel, resp.Model)

	assert.True(t, strings.HasSuffix(gotPath, "models/"+geminiTestModel+":generateContent"), gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "systemInstruction")
	require.Contains(t, gotBody, "contents")
	assert.Len(t, gotBody["contents"], 1)
}

func TestGeminiProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{"quota exhausted", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`, KindRateLimited},
		{"internal error", http.StatusInternalServerError, `{"error":{"code":500,"message":"Internal error","status":"INTERNAL"}}`, KindService},
		{"gateway timeout", http.StatusGatewayTimeout, `{"error":{"code":504,"message":"Deadline expired","status":"DEADLINE_EXCEEDED"}}`, KindTimeout},
		{"bad api key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, KindService},
		{"plain text body", http.StatusServiceUnavailable, "upstream unavailable", KindService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newGeminiTestProvider(t, srv.URL).GenerateContent(context.Background(), geminiRequest())
			require.Error(t, err)

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantKind, genErr.Kind)
			assert.Equal(t, tt.status, genErr.StatusCode)
			assert.Equal(t, ProviderGemini, genErr.Provider)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestGeminiProvider_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"candidate without parts", `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"SAFETY"}]}`},
		{"whitespace text", `{"candidates":[{"content":{"role":"model","parts":[{"text":"  \n"}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newGeminiTestProvider(t, srv.URL).GenerateContent(context.Background(), geminiRequest())
			assert.True(t, IsKind(err, KindEmptyResponse), "got %v", err)
		})
	}
}

func TestGeminiProvider_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":`))
	}))
	defer srv.Close()

	_, err := newGeminiTestProvider(t, srv.URL).GenerateContent(context.Background(), geminiRequest())
	assert.True(t, IsKind(err, KindService), "got %v", err)
}

func TestGeminiProvider_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newGeminiTestProvider(t, url).GenerateContent(context.Background(), geminiRequest())
	assert.True(t, IsKind(err, KindTransport), "got %v", err)
}

func TestConvertMessagesToGemini(t *testing.T) {
	t.Run("roles and system instruction", func(t *testing.T) {
		contents, system, err := convertMessagesToGemini([]interfaces.Message{
			{Role: "system", Content: "first system"},
			{Role: "system", Content: "second system"},
			{Role: "user", Content: "question"},
			{Role: "assistant", Content: "answer"},
		})
		require.NoError(t, err)

		assert.Equal(t, "first system", system)
		require.Len(t, contents, 2)
		assert.Equal(t, "user", contents[0].Role)
		assert.Equal(t, "model", contents[1].Role)
		assert.Equal(t, "answer", contents[1].Parts[0].Text)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := convertMessagesToGemini(nil)
		assert.Error(t, err)
	})

	t.Run("system only", func(t *testing.T) {
		_, _, err := convertMessagesToGemini([]interfaces.Message{{Role: "system", Content: "x"}})
		assert.ErrorContains(t, err, "role 'user'")
	})
}
