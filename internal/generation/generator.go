package generation

import "context"

// Generator defines the interface for turning a prompt into generated text.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// Generate sends prompt to the provider in a single call and returns the
	// generated text verbatim. Failures wrap one of the sentinels in errors.go.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Generator. It is the explicit, fallible initialization
// step: a missing or unusable credential is reported as ErrInvalidConfig so the
// caller can surface it instead of failing at startup.
type Factory func(ctx context.Context) (Generator, error)

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Static returns a Factory that always yields g.
func Static(g Generator) Factory {
	return func(context.Context) (Generator, error) {
		return g, nil
	}
}
