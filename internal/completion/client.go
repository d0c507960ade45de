// Package completion turns interview state into provider prompts and provider
// replies into typed results. Provider failures never escape this package:
// every call degrades to a fixed fallback value instead.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xiaot623/gogo/coach/internal/adapter/llm"
	"github.com/xiaot623/gogo/coach/internal/domain"
	"github.com/xiaot623/gogo/coach/internal/metrics"
	"go.uber.org/zap"
)

// ErrExternalService marks a network, status, timeout or decoding failure of the provider.
var ErrExternalService = errors.New("completion provider failure")

const (
	// DefaultTimeout caps a single provider call.
	DefaultTimeout = 30 * time.Second

	// FallbackQuestion is asked when the provider cannot produce one.
	FallbackQuestion = "Could you tell me more about that?"

	kindQuestion = "question"
	kindFeedback = "feedback"
)

// FallbackFeedback is returned when the provider cannot produce an evaluation.
func FallbackFeedback() domain.Feedback {
	return domain.Feedback{
		OverallScore:     7.0,
		Sentiment:        domain.SentimentPositive,
		Strengths:        []string{"Completed all questions", "Showed engagement"},
		Improvements:     []string{"Could not generate detailed feedback"},
		DetailedFeedback: "Thank you for completing the interview. Your responses showed good engagement.",
		FinalVerdict:     "Overall solid performance.",
	}
}

// NextQuestionRequest is the input for generating the next question.
type NextQuestionRequest struct {
	PriorAnswer string
	Step        int
	Role        string
	Tone        string
	// Context holds the answers recorded so far; only the most recent are used.
	Context []domain.Answer
}

// Client wraps a provider with prompt construction, parsing and fallback.
type Client struct {
	completer      llm.Completer
	totalQuestions int
	timeout        time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewClient creates a completion client asking totalQuestions questions per interview.
func NewClient(completer llm.Completer, totalQuestions int, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Client{
		completer:      completer,
		totalQuestions: totalQuestions,
		timeout:        timeout,
		logger:         logger.Named("completion"),
		metrics:        m,
	}
}

// TotalQuestions is the configured question budget.
func (c *Client) TotalQuestions() int {
	return c.totalQuestions
}

// IsComplete reports whether step has reached the question budget.
func (c *Client) IsComplete(step int) bool {
	return step >= c.totalQuestions
}

// NextQuestion returns the question for req.Step. Step 0 never reaches the provider.
func (c *Client) NextQuestion(ctx context.Context, req NextQuestionRequest) domain.QuestionResult {
	result := domain.QuestionResult{
		IsComplete:     c.IsComplete(req.Step),
		TotalQuestions: c.totalQuestions,
	}

	if req.Step == 0 {
		c.metrics.CompletionRequests.WithLabelValues(kindQuestion, metrics.OutcomeSkipped).Inc()
		result.QuestionText = WelcomeQuestion(req.Role)
		return result
	}

	question, err := c.question(ctx, req)
	if err != nil {
		c.logger.Warn("question generation failed, using fallback",
			zap.Int("step", req.Step),
			zap.String("provider", c.completer.Name()),
			zap.Error(err),
		)
		c.metrics.CompletionRequests.WithLabelValues(kindQuestion, metrics.OutcomeFallback).Inc()
		result.QuestionText = FallbackQuestion
		return result
	}

	c.metrics.CompletionRequests.WithLabelValues(kindQuestion, metrics.OutcomeSuccess).Inc()
	result.QuestionText = question
	return result
}

func (c *Client) question(ctx context.Context, req NextQuestionRequest) (string, error) {
	raw, err := c.generate(ctx, kindQuestion, QuestionPrompt(req, c.totalQuestions))
	if err != nil {
		return "", err
	}
	return DecodeQuestion(raw)
}

// FinalFeedback evaluates the whole transcript. answers must be ordered by question number.
func (c *Client) FinalFeedback(ctx context.Context, role string, answers []domain.Answer) domain.Feedback {
	raw, err := c.generate(ctx, kindFeedback, FeedbackPrompt(role, answers))
	var feedback domain.Feedback
	if err == nil {
		feedback, err = DecodeFeedback(raw)
	}
	if err != nil {
		c.logger.Warn("feedback generation failed, using fallback",
			zap.Int("answers", len(answers)),
			zap.String("provider", c.completer.Name()),
			zap.Error(err),
		)
		c.metrics.CompletionRequests.WithLabelValues(kindFeedback, metrics.OutcomeFallback).Inc()
		return FallbackFeedback()
	}

	c.metrics.CompletionRequests.WithLabelValues(kindFeedback, metrics.OutcomeSuccess).Inc()
	return feedback
}

// generate performs one bounded provider call.
func (c *Client) generate(ctx context.Context, kind, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.completer.Complete(callCtx, prompt)
	c.metrics.CompletionDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	c.logger.Debug("provider replied",
		zap.String("kind", kind),
		zap.Int("bytes", len(text)),
		zap.Duration("latency", time.Since(start)),
	)
	return text, nil
}
