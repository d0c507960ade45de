package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MockClient is a deterministic Completer for local runs and tests.
// Its reply carries both a next question and a full feedback object, so it
// satisfies either prompt the service sends.
type MockClient struct{}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Name implements Completer.
func (m *MockClient) Name() string { return "mock" }

// Complete returns a fenced JSON reply derived from the prompt.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reply := map[string]interface{}{
		"next_question":     fmt.Sprintf("[MOCK] Interesting. Can you walk me through an example of that? (%s)", truncate(lastLine(prompt), 60)),
		"overall_score":     8.0,
		"sentiment":         "POSITIVE",
		"strengths":         []string{"Clear communication", "Relevant examples"},
		"improvements":      []string{"Quantify the impact of your work"},
		"detailed_feedback": "[MOCK] The candidate answered every question with relevant detail.",
		"final_verdict":     "[MOCK] Strong interview.",
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	return "```json\n" + string(data) + "\n```", nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// truncate shortens s to at most maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
