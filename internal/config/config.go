// Package config provides configuration for the interview coach.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort    int      `env:"COACH_HTTP_PORT" envDefault:"8000"`
	CORSOrigins []string `env:"COACH_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Database
	DatabaseURL string `env:"COACH_DATABASE_URL" envDefault:"file:interviews.db?mode=rwc"`

	// Completion provider
	Mode          string `env:"COACH_MODE"`
	LLMProvider   string `env:"COACH_LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Interview
	MaxQuestions    int `env:"COACH_MAX_QUESTIONS" envDefault:"5"`
	RequiredAnswers int `env:"COACH_REQUIRED_ANSWERS"`

	// Timeouts
	CompletionTimeout time.Duration `env:"COACH_COMPLETION_TIMEOUT" envDefault:"30s"`
	StoreTimeout      time.Duration `env:"COACH_STORE_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"COACH_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	if c.RequiredAnswers == 0 {
		c.RequiredAnswers = c.MaxQuestions
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxQuestions <= 0 {
		return fmt.Errorf("COACH_MAX_QUESTIONS must be positive, got %d", c.MaxQuestions)
	}
	if c.RequiredAnswers < 0 {
		return fmt.Errorf("COACH_REQUIRED_ANSWERS must not be negative, got %d", c.RequiredAnswers)
	}
	if c.CompletionTimeout <= 0 || c.StoreTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	switch c.LLMProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown COACH_LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

// MockMode reports whether the mock provider is selected.
func (c *Config) MockMode() bool {
	return strings.EqualFold(c.Mode, "MOCK")
}

// ProviderAPIKey returns the credential of the selected provider.
func (c *Config) ProviderAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Warnings lists non-fatal configuration problems to report at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if !c.MockMode() && c.ProviderAPIKey() == "" {
		warnings = append(warnings, fmt.Sprintf("no API key set for provider %q; completion calls will fail and fall back", c.LLMProvider))
	}
	if c.RequiredAnswers > c.MaxQuestions {
		warnings = append(warnings, fmt.Sprintf("required answers (%d) exceed max questions (%d)", c.RequiredAnswers, c.MaxQuestions))
	}
	return warnings
}
