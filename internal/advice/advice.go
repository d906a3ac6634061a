// Package advice defines the outbound port for the text-generation
// collaborator that turns a financial snapshot prompt into advice.
package advice

import "context"

// Generator produces free-text advice for a prompt. Implementations may
// fail for any reason; callers must treat failures as non-fatal.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
