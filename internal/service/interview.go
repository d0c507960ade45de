package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xiaot623/gogo/coach/internal/completion"
	"github.com/xiaot623/gogo/coach/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultRole = "Software Engineer"
	DefaultTone = "professional"
)

// StartInterview creates a session and returns its opening question.
func (s *Service) StartInterview(ctx context.Context, req domain.StartInterviewRequest) (*domain.TurnResponse, error) {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = DefaultRole
	}
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = DefaultTone
	}

	session := &domain.Session{
		SessionID: uuid.New().String(),
		Role:      role,
		Tone:      tone,
	}
	writeCtx, cancel := s.writeCtx(ctx)
	err := s.store.CreateSession(writeCtx, session)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.metrics.InterviewsStarted.Inc()
	s.logger.Info("interview started",
		zap.String("session_id", session.SessionID),
		zap.String("role", role),
		zap.String("tone", tone),
	)

	q := s.completion.NextQuestion(ctx, completion.NextQuestionRequest{Step: 0, Role: role, Tone: tone})
	return &domain.TurnResponse{
		NextQuestion:    q.QuestionText,
		IsComplete:      false,
		TotalQuestions:  q.TotalQuestions,
		SessionID:       session.SessionID,
		CurrentQuestion: 0,
	}, nil
}

// SubmitAnswer records the answer to req.Step when a question and answer are
// both present, then produces the question for req.Step+1.
func (s *Service) SubmitAnswer(ctx context.Context, req domain.SubmitAnswerRequest) (*domain.TurnResponse, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, domain.ErrMissingSession
	}
	if req.Step < 0 {
		return nil, fmt.Errorf("%w: step must not be negative", domain.ErrInvalidStep)
	}

	if req.PreviousQuestion != "" && req.Answer != "" {
		answer := &domain.Answer{
			SessionID:      req.SessionID,
			QuestionNumber: req.Step,
			Question:       req.PreviousQuestion,
			Answer:         req.Answer,
		}
		writeCtx, cancel := s.writeCtx(ctx)
		err := s.store.SaveAnswer(writeCtx, answer)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to save answer: %w", err)
		}
		s.metrics.AnswersRecorded.Inc()
	}

	readCtx, cancel := s.readCtx(ctx)
	defer cancel()
	answers, err := s.store.GetAnswers(readCtx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	role, tone := req.Role, req.Tone
	if role == "" || tone == "" {
		session, err := s.store.GetSession(readCtx, req.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if session != nil {
			if role == "" {
				role = session.Role
			}
			if tone == "" {
				tone = session.Tone
			}
		}
	}
	if role == "" {
		role = DefaultRole
	}
	if tone == "" {
		tone = DefaultTone
	}

	next := req.Step + 1
	q := s.completion.NextQuestion(ctx, completion.NextQuestionRequest{
		PriorAnswer: req.Answer,
		Step:        next,
		Role:        role,
		Tone:        tone,
		Context:     answers,
	})

	s.logger.Debug("answer processed",
		zap.String("session_id", req.SessionID),
		zap.Int("step", req.Step),
		zap.Int("answers", len(answers)),
		zap.Bool("is_complete", q.IsComplete),
	)

	return &domain.TurnResponse{
		NextQuestion:    q.QuestionText,
		IsComplete:      q.IsComplete,
		TotalQuestions:  q.TotalQuestions,
		SessionID:       req.SessionID,
		CurrentQuestion: next,
	}, nil
}

// GetSession returns a session with its answer count and derived state.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.SessionView, error) {
	ctx, cancel := s.readCtx(ctx)
	defer cancel()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	count, err := s.store.CountAnswers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}

	return &domain.SessionView{
		Session:        *session,
		AnswerCount:    count,
		TotalQuestions: s.TotalQuestions(),
		State:          StateOf(count, session.Completed, s.requiredAnswers()),
	}, nil
}

// StateOf derives the protocol state of a session from what is persisted.
func StateOf(answerCount int, completed bool, required int) domain.SessionState {
	switch {
	case completed:
		return domain.SessionStateCompleted
	case answerCount == 0:
		return domain.SessionStateNotStarted
	case answerCount >= required:
		return domain.SessionStateReadyForFeedback
	default:
		return domain.SessionStateInProgress
	}
}
