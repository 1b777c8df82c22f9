package llm

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// stubProvider answers every request with the configured behaviour
type stubProvider struct {
	calls   atomic.Int32
	respond func(ctx context.Context, req *ContentRequest) (*ContentResponse, error)
	lastReq *ContentRequest
}

func (p *stubProvider) GenerateContent(ctx context.Context, req *ContentRequest) (*ContentResponse, error) {
	p.calls.Add(1)
	p.lastReq = req
	return p.respond(ctx, req)
}

func (p *stubProvider) GetProviderType() ProviderType { return ProviderOllama }
func (p *stubProvider) Close() error                  { return nil }

func reply(text string) func(context.Context, *ContentRequest) (*ContentResponse, error) {
	return func(context.Context, *ContentRequest) (*ContentResponse, error) {
		return &ContentResponse{Text: text, Provider: ProviderOllama}, nil
	}
}

func newTestClient(p Provider, opts ClientOptions) *Client {
	return NewClient(p, "llama3", opts, arbor.NewLogger())
}

func TestClientGenerate_Success(t *testing.T) {
	provider := &stubProvider{respond: reply("Summary: healthy")}
	client := newTestClient(provider, ClientOptions{Temperature: 0.4})

	text, err := client.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Summary: healthy", text)

	require.NotNil(t, provider.lastReq)
	require.Len(t, provider.lastReq.Messages, 1)
	assert.Equal(t, "user", provider.lastReq.Messages[0].Role)
	assert.Equal(t, "the prompt", provider.lastReq.Messages[0].Content)
	assert.Equal(t, "llama3", provider.lastReq.Model)
	assert.Equal(t, float32(0.4), provider.lastReq.Temperature)
}

func TestClientGenerate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(context.Context, *ContentRequest) (*ContentResponse, error)
		wantKind ErrorKind
	}{
		{
			name:     "empty text",
			respond:  reply("   \n"),
			wantKind: KindEmptyResponse,
		},
		{
			name: "nil response",
			respond: func(context.Context, *ContentRequest) (*ContentResponse, error) {
				return nil, nil
			},
			wantKind: KindEmptyResponse,
		},
		{
			name: "unclassified error",
			respond: func(context.Context, *ContentRequest) (*ContentResponse, error) {
				return nil, errors.New("model not found")
			},
			wantKind: KindService,
		},
		{
			name: "rate limit text",
			respond: func(context.Context, *ContentRequest) (*ContentResponse, error) {
				return nil, errors.New("Error 429, Status: RESOURCE_EXHAUSTED")
			},
			wantKind: KindRateLimited,
		},
		{
			name: "provider classified error is kept",
			respond: func(context.Context, *ContentRequest) (*ContentResponse, error) {
				return nil, &GenerationError{Kind: KindTransport, Provider: ProviderOllama, Err: errors.New("refused")}
			},
			wantKind: KindTransport,
		},
		{
			name: "panic",
			respond: func(context.Context, *ContentRequest) (*ContentResponse, error) {
				panic("boom")
			},
			wantKind: KindService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{respond: tt.respond}
			client := newTestClient(provider, ClientOptions{})

			text, err := client.Generate(context.Background(), "prompt")
			assert.Empty(t, text)
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.wantKind), "got %v", err)
			assert.Equal(t, int32(1), provider.calls.Load(), "calls are never retried")
		})
	}
}

func TestClientGenerate_Timeout(t *testing.T) {
	provider := &stubProvider{respond: func(ctx context.Context, _ *ContentRequest) (*ContentResponse, error) {
		<-ctx.Done()
		return nil, errors.New("connection reset")
	}}
	client := newTestClient(provider, ClientOptions{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := client.Generate(context.Background(), "prompt")
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.True(t, IsKind(err, KindTimeout), "got %v", err)
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "llama3", genErr.Model)
	assert.Equal(t, ProviderOllama, genErr.Provider)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestClientGenerate_RateLimitWaitExceedsDeadline(t *testing.T) {
	provider := &stubProvider{respond: reply("ok")}
	client := newTestClient(provider, ClientOptions{Timeout: 50 * time.Millisecond, RateLimit: time.Hour})

	_, err := client.Generate(context.Background(), "first")
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "second")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRateLimited) || IsKind(err, KindTimeout), "got %v", err)
	assert.Equal(t, int32(1), provider.calls.Load(), "second call must not reach the provider")
}

func TestClientGenerateText(t *testing.T) {
	ok := newTestClient(&stubProvider{respond: reply("narrative")}, ClientOptions{})
	assert.Equal(t, "narrative", ok.GenerateText(context.Background(), "prompt"))

	failing := newTestClient(&stubProvider{respond: func(context.Context, *ContentRequest) (*ContentResponse, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}, ClientOptions{})
	msg := failing.GenerateText(context.Background(), "prompt")
	assert.True(t, strings.HasPrefix(msg, "Error:"), msg)
}

func TestClientDefaults(t *testing.T) {
	client := newTestClient(&stubProvider{respond: reply("x")}, ClientOptions{})
	assert.Equal(t, DefaultTimeout, client.opts.Timeout)
	assert.Nil(t, client.limiter)
	assert.Equal(t, "llama3", client.Model())
	assert.Equal(t, ProviderOllama, client.Provider())
	assert.NoError(t, client.Close())
}
