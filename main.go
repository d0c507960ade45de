package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xiaot623/gogo/coach/internal/adapter/llm"
	"github.com/xiaot623/gogo/coach/internal/completion"
	"github.com/xiaot623/gogo/coach/internal/config"
	"github.com/xiaot623/gogo/coach/internal/logging"
	"github.com/xiaot623/gogo/coach/internal/metrics"
	"github.com/xiaot623/gogo/coach/internal/repository"
	"github.com/xiaot623/gogo/coach/internal/service"
	handler "github.com/xiaot623/gogo/coach/internal/transport/http"
	"github.com/xiaot623/gogo/coach/policy"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "AI interview coach API server",
	Long: `coach serves the interview practice API: it asks a fixed number of
generated questions, records the answers and produces a final feedback report.

Configuration is read from the environment and an optional .env file.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	logger.Info("database schema is up to date", zap.String("database", cfg.DatabaseURL))
	return db.Close()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting interview coach",
		zap.String("version", version),
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("provider", cfg.LLMProvider),
		zap.Bool("mock", cfg.MockMode()),
		zap.Int("max_questions", cfg.MaxQuestions),
	)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	// Initialize completion provider
	completer, err := llm.NewCompleter(llm.Options{
		Mode:          cfg.Mode,
		Provider:      cfg.LLMProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		Timeout:       cfg.CompletionTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize completion provider: %w", err)
	}

	m := metrics.New()
	completionClient := completion.NewClient(completer, cfg.MaxQuestions, cfg.CompletionTimeout, logger, m)

	// Initialize policy engine
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	svc := service.New(db, completionClient, policyEngine, cfg, logger, m)
	server := handler.NewServer(svc, logger, m, cfg.CORSOrigins)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		logger.Info("http server listening", zap.String("addr", addr))
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	logger.Info("shutting down interview coach")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shut down http server gracefully", zap.Error(err))
	}
	logger.Info("interview coach stopped")
	return nil
}
