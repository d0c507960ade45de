// Package policy evaluates the feedback gate with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions produced by the feedback policy.
const (
	DecisionAllow      = "allow"
	DecisionIncomplete = "incomplete"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.feedback_policy.decision"),
		rego.Module("feedback_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// FeedbackInput is what the gate sees about a session.
type FeedbackInput struct {
	SessionID       string `json:"session_id"`
	AnswerCount     int    `json:"answer_count"`
	RequiredAnswers int    `json:"required_answers"`
	Completed       bool   `json:"completed"`
}

// Evaluate returns the decision for in. Policies may yield either a bare string
// or an object {decision, reason}.
func (e *Engine) Evaluate(ctx context.Context, in FeedbackInput) (string, string, error) {
	input := map[string]interface{}{
		"session_id":       in.SessionID,
		"answer_count":     in.AnswerCount,
		"required_answers": in.RequiredAnswers,
		"completed":        in.Completed,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "", "", fmt.Errorf("policy produced no decision")
	}

	switch val := results[0].Expressions[0].Value.(type) {
	case string:
		return val, "", nil
	case map[string]interface{}:
		decision, _ := val["decision"].(string)
		reason, _ := val["reason"].(string)
		if decision == "" {
			return "", "", fmt.Errorf("policy object has no decision")
		}
		return decision, reason, nil
	default:
		return "", "", fmt.Errorf("unexpected policy result type %T", val)
	}
}

// DefaultPolicy requires every configured answer to be persisted before feedback.
const DefaultPolicy = `
package feedback_policy

default decision = {"decision": "allow", "reason": "all answers recorded"}

decision = {"decision": "incomplete", "reason": msg} {
	input.answer_count < input.required_answers
	msg := sprintf("%d of %d answers recorded", [input.answer_count, input.required_answers])
}
`
