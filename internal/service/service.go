// Package service implements the interview turn protocol and the feedback flow.
package service

import (
	"context"

	"github.com/xiaot623/gogo/coach/internal/completion"
	"github.com/xiaot623/gogo/coach/internal/config"
	"github.com/xiaot623/gogo/coach/internal/metrics"
	"github.com/xiaot623/gogo/coach/internal/repository"
	"github.com/xiaot623/gogo/coach/policy"
	"go.uber.org/zap"
)

type Service struct {
	store        repository.Store
	completion   *completion.Client
	policyEngine *policy.Engine
	config       *config.Config
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

func New(store repository.Store, completionClient *completion.Client, policyEngine *policy.Engine, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		store:        store,
		completion:   completionClient,
		policyEngine: policyEngine,
		config:       cfg,
		logger:       logger.Named("service"),
		metrics:      m,
	}
}

// TotalQuestions is the number of questions asked per interview.
func (s *Service) TotalQuestions() int {
	return s.completion.TotalQuestions()
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.readCtx(ctx)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *Service) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.StoreTimeout)
}

// writeCtx detaches from the caller so a dropped client cannot abort a write halfway.
func (s *Service) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.config.StoreTimeout)
}

func (s *Service) requiredAnswers() int {
	if s.config.RequiredAnswers > 0 {
		return s.config.RequiredAnswers
	}
	return s.TotalQuestions()
}
