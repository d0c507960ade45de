package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"COACH_HTTP_PORT", "COACH_DATABASE_URL", "COACH_MAX_QUESTIONS", "COACH_REQUIRED_ANSWERS", "COACH_LLM_PROVIDER", "GEMINI_API_KEY", "COACH_MODE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 5, cfg.MaxQuestions)
	assert.Equal(t, 5, cfg.RequiredAnswers)
	assert.Equal(t, 30*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NotContains(t, cfg.DatabaseURL, "cache=shared")
	assert.NotEmpty(t, cfg.Warnings())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COACH_MAX_QUESTIONS", "3")
	t.Setenv("COACH_LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("COACH_COMPLETION_TIMEOUT", "2s")
	t.Setenv("COACH_CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxQuestions)
	assert.Equal(t, 3, cfg.RequiredAnswers)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.ProviderAPIKey())
	assert.Equal(t, 2*time.Second, cfg.CompletionTimeout)
	assert.Len(t, cfg.CORSOrigins, 2)
	assert.Empty(t, cfg.Warnings())
}

func TestValidate(t *testing.T) {
	cfg := &Config{MaxQuestions: 0, CompletionTimeout: time.Second, StoreTimeout: time.Second, LLMProvider: "gemini"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{MaxQuestions: 5, CompletionTimeout: time.Second, StoreTimeout: time.Second, LLMProvider: "palm"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{MaxQuestions: 5, CompletionTimeout: time.Second, StoreTimeout: time.Second, LLMProvider: "gemini"}
	assert.NoError(t, cfg.Validate())
}

func TestMockModeSuppressesKeyWarning(t *testing.T) {
	cfg := &Config{Mode: "mock", LLMProvider: "gemini", MaxQuestions: 5, RequiredAnswers: 5}
	assert.True(t, cfg.MockMode())
	assert.Empty(t, cfg.Warnings())
}
