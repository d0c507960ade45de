// Package llm provides text-completion provider clients.
package llm

import "context"

// Completer sends a single prompt to a text-generation provider and returns its raw text.
type Completer interface {
	// Complete returns the provider's text for prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// Ensure the providers implement Completer.
var (
	_ Completer = (*GeminiClient)(nil)
	_ Completer = (*OpenAIClient)(nil)
	_ Completer = (*MockClient)(nil)
)
