package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
)

func TestNew_DefaultConfig(t *testing.T) {
	cfg := common.NewDefaultConfig()

	application, err := New(context.Background(), cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	assert.Equal(t, "llama3", application.LLMService.Model())
	assert.NotNil(t, application.Metrics)
	assert.NotNil(t, application.ReportService)
	assert.NotNil(t, application.ReportHandler)
	assert.NotNil(t, application.APIHandler)
	assert.NotNil(t, application.ConfigHandler)
	assert.Equal(t, "/worker/profile", application.ConfigService.GetProfileURL())
}

func TestNew_ProviderKeyMissing(t *testing.T) {
	for _, key := range []string{
		"CURAVIE_CLAUDE_API_KEY", "ANTHROPIC_API_KEY",
		"CURAVIE_GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}

	tests := []struct {
		name  string
		model string
	}{
		{name: "claude", model: "claude-sonnet-4-20250514"},
		{name: "gemini", model: "gemini/gemini-2.5-flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.NewDefaultConfig()
			cfg.LLM.Model = tt.model

			application, err := New(context.Background(), cfg, arbor.NewLogger())
			assert.Error(t, err)
			assert.Nil(t, application)
			assert.Contains(t, err.Error(), "API key")
		})
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.LLM.Timeout = "soon"

	_, err := New(context.Background(), cfg, arbor.NewLogger())
	assert.ErrorContains(t, err, "llm.timeout")
}
