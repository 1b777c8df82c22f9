package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/metrics"
	"github.com/lazyserp/CuraVie/internal/models"
	"github.com/lazyserp/CuraVie/internal/services/llm"
	"github.com/lazyserp/CuraVie/internal/services/pdf"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeLLM) Model() string { return "fake-model" }
func (f *fakeLLM) Close() error  { return nil }

type fakeRenderer struct {
	mu         sync.Mutex
	narratives []string
	names      []string
	err        error
	empty      bool
}

func (f *fakeRenderer) RenderReport(narrative, displayName string) (*models.ReportDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.narratives = append(f.narratives, narrative)
	f.names = append(f.names, displayName)
	if f.err != nil {
		return nil, f.err
	}
	content := []byte("%PDF-1.3 fake")
	if f.empty {
		content = nil
	}
	return &models.ReportDocument{
		Filename:    models.ReportFilename(displayName),
		ContentType: models.ContentTypePDF,
		Pages:       1,
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}, nil
}

func (f *fakeRenderer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.narratives)
}

func TestGenerate_Delivered(t *testing.T) {
	gen := &fakeLLM{reply: "1. Overall Health Summary\nAsha is mostly well."}
	renderer := &fakeRenderer{}
	m := metrics.New()
	service := NewService(gen, renderer, "", arbor.NewLogger(), m)

	result, err := service.Generate(context.Background(), ashaWorker())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.ReportID)
	assert.Equal(t, "Health_Report_Asha_K_.pdf", result.Document.Filename)
	assert.Equal(t, []string{"Asha K."}, renderer.names)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "in Kerala, India.")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportsTotal.WithLabelValues("delivered")))
}

func TestGenerate_ReportIDsAreUnique(t *testing.T) {
	service := NewService(&fakeLLM{reply: "ok"}, &fakeRenderer{}, "Kerala, India", arbor.NewLogger(), nil)

	first, err := service.Generate(context.Background(), ashaWorker())
	require.NoError(t, err)
	second, err := service.Generate(context.Background(), ashaWorker())
	require.NoError(t, err)
	assert.NotEqual(t, first.ReportID, second.ReportID)
}

func TestGenerate_ProfileMissing(t *testing.T) {
	gen := &fakeLLM{reply: "unused"}
	renderer := &fakeRenderer{}
	m := metrics.New()
	service := NewService(gen, renderer, "", arbor.NewLogger(), m)

	for _, w := range []*models.Worker{nil, {ID: 3}} {
		result, err := service.Generate(context.Background(), w)
		assert.Nil(t, result)

		var failure *Failure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, StageNoProfile, failure.Stage)
		assert.ErrorIs(t, err, ErrProfileMissing)
		assert.Equal(t, "profile_missing", failure.Reason())
		assert.True(t, strings.HasPrefix(failure.UserMessage(), "Error:"))
	}

	assert.Empty(t, gen.prompts)
	assert.Zero(t, renderer.calls())
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReportsTotal.WithLabelValues("profile_missing")))
}

func TestGenerate_TransportFaultProducesNoDocument(t *testing.T) {
	// A closed server refuses connections
	srv := httptest.NewServer(nil)
	baseURL := srv.URL
	srv.Close()

	logger := arbor.NewLogger()
	provider := llm.NewOllamaProvider(&common.OllamaConfig{BaseURL: baseURL}, logger)
	client := llm.NewClient(provider, "llama3", llm.ClientOptions{Timeout: 5 * time.Second}, logger)
	renderer := &fakeRenderer{}
	m := metrics.New()
	service := NewService(client, renderer, "", logger, m)

	result, err := service.Generate(context.Background(), ashaWorker())
	assert.Nil(t, result)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, StageGenerating, failure.Stage)
	assert.NotEmpty(t, failure.ReportID)
	assert.True(t, llm.IsKind(err, llm.KindTransport), "got %v", err)
	assert.True(t, strings.HasPrefix(failure.UserMessage(), "Error:"))
	assert.Equal(t, "generation_transport", failure.Reason())

	assert.Zero(t, renderer.calls(), "renderer must not run after a generation failure")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportsTotal.WithLabelValues("generation_transport")))
	assert.Zero(t, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("delivered")))
}

func TestGenerate_GenerationErrorKinds(t *testing.T) {
	tests := []struct {
		kind       llm.ErrorKind
		wantReason string
	}{
		{llm.KindTimeout, "generation_timeout"},
		{llm.KindService, "generation_service"},
		{llm.KindEmptyResponse, "generation_empty_response"},
		{llm.KindRateLimited, "generation_rate_limited"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			gen := &fakeLLM{err: &llm.GenerationError{Kind: tt.kind, Provider: llm.ProviderOllama, Model: "llama3"}}
			renderer := &fakeRenderer{}
			service := NewService(gen, renderer, "", arbor.NewLogger(), nil)

			_, err := service.Generate(context.Background(), ashaWorker())

			var failure *Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.wantReason, failure.Reason())
			assert.True(t, strings.HasPrefix(failure.UserMessage(), "Error:"))
			assert.Zero(t, renderer.calls())
		})
	}
}

func TestGenerate_BoldMarkersNeverReachTheDocument(t *testing.T) {
	reply := "1. **Overall Health Summary**\nAsha is **mostly** well.\n- ***Anaemia*** risk"

	t.Run("renderer input", func(t *testing.T) {
		renderer := &fakeRenderer{}
		service := NewService(&fakeLLM{reply: reply}, renderer, "", arbor.NewLogger(), nil)

		_, err := service.Generate(context.Background(), ashaWorker())
		require.NoError(t, err)
		require.Len(t, renderer.narratives, 1)
		assert.NotContains(t, renderer.narratives[0], "**")
		assert.Contains(t, renderer.narratives[0], "Overall Health Summary")
	})

	t.Run("rendered document", func(t *testing.T) {
		cfg := common.NewDefaultConfig().PDF
		cfg.Compress = false
		renderer := pdf.NewService(cfg, arbor.NewLogger())
		service := NewService(&fakeLLM{reply: reply}, renderer, "", arbor.NewLogger(), nil)

		result, err := service.Generate(context.Background(), ashaWorker())
		require.NoError(t, err)

		data, err := io.ReadAll(result.Document.Content)
		require.NoError(t, err)
		assert.False(t, bytes.Contains(data, []byte("**")))
		assert.True(t, bytes.Contains(data, []byte("Overall Health Summary")))
	})
}

func TestGenerate_RenderFailure(t *testing.T) {
	tests := []struct {
		name     string
		renderer *fakeRenderer
	}{
		{"renderer error", &fakeRenderer{err: &pdf.RenderError{Filename: "x.pdf", Op: "output", Err: errors.New("disk full")}}},
		{"empty document", &fakeRenderer{empty: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			service := NewService(&fakeLLM{reply: "fine"}, tt.renderer, "", arbor.NewLogger(), m)

			result, err := service.Generate(context.Background(), ashaWorker())
			assert.Nil(t, result)

			var failure *Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, StageRendering, failure.Stage)
			assert.True(t, strings.HasPrefix(failure.UserMessage(), "Error:"))
			assert.Zero(t, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("delivered")))
		})
	}
}

func TestPrompt(t *testing.T) {
	service := NewService(&fakeLLM{}, &fakeRenderer{}, "Goa, India", arbor.NewLogger(), nil)

	prompt, err := service.Prompt(ashaWorker())
	require.NoError(t, err)
	assert.Contains(t, prompt, "in Goa, India.")
	assert.Contains(t, prompt, "- Full Name: Asha K.\n")

	_, err = service.Prompt(&models.Worker{})
	assert.ErrorIs(t, err, ErrProfileMissing)
}

func TestGenerate_ConcurrentRuns(t *testing.T) {
	renderer := &fakeRenderer{}
	service := NewService(&fakeLLM{reply: "ok"}, renderer, "", arbor.NewLogger(), metrics.New())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Generate(context.Background(), ashaWorker())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, renderer.calls())
}
