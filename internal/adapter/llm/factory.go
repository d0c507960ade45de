package llm

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// ModeMock selects the mock client regardless of provider.
	ModeMock = "MOCK"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options carries what the factory needs to build a provider client.
type Options struct {
	Mode     string
	Provider string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	Timeout time.Duration
}

// NewCompleter creates a Completer for opts. Mode MOCK wins over Provider.
func NewCompleter(opts Options, logger *zap.Logger) (Completer, error) {
	if strings.EqualFold(opts.Mode, ModeMock) {
		logger.Info("mock mode detected, using mock completion client")
		return NewMockClient(), nil
	}

	switch strings.ToLower(opts.Provider) {
	case ProviderGemini, "":
		return NewGeminiClient(opts.GeminiBaseURL, opts.GeminiAPIKey, opts.GeminiModel, opts.Timeout), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts.OpenAIAPIKey, opts.OpenAIBaseURL, opts.OpenAIModel, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}
