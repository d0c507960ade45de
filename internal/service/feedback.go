package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/coach/internal/domain"
	"github.com/xiaot623/gogo/coach/policy"
	"go.uber.org/zap"
)

// GetFeedback evaluates a finished interview and marks the session completed.
// Every call regenerates the evaluation.
func (s *Service) GetFeedback(ctx context.Context, sessionID string) (*domain.FeedbackReport, error) {
	readCtx, cancel := s.readCtx(ctx)
	session, err := s.store.GetSession(readCtx, sessionID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		cancel()
		return nil, domain.ErrSessionNotFound
	}
	count, err := s.store.CountAnswers(readCtx, sessionID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}

	decision, reason, err := s.policyEngine.Evaluate(ctx, policy.FeedbackInput{
		SessionID:       sessionID,
		AnswerCount:     count,
		RequiredAnswers: s.requiredAnswers(),
		Completed:       session.Completed,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("feedback policy: %w", err)
	}
	if decision != policy.DecisionAllow {
		cancel()
		if reason == "" {
			reason = decision
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInterviewIncomplete, reason)
	}

	answers, err := s.store.GetAnswers(readCtx, sessionID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	feedback := s.completion.FinalFeedback(ctx, session.Role, answers)

	writeCtx, cancel := s.writeCtx(ctx)
	err = s.store.MarkComplete(writeCtx, sessionID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	if !session.Completed {
		s.metrics.InterviewsCompleted.Inc()
	}
	s.logger.Info("feedback generated",
		zap.String("session_id", sessionID),
		zap.Int("answers", len(answers)),
		zap.Float64("overall_score", feedback.OverallScore),
		zap.String("sentiment", string(feedback.Sentiment)),
	)

	return &domain.FeedbackReport{
		SessionID: sessionID,
		Role:      session.Role,
		Feedback:  feedback,
		Answers:   answers,
	}, nil
}
