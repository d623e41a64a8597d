// Package llm provides the generative-text service boundary. The
// pipeline depends only on the Completer interface; the Anthropic
// client is constructed once from configuration and passed in, never
// held in module-level state.
package llm

import "context"

// Completer runs one prompt through a generative-text model and
// returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Completer interface.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
