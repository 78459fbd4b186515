package llm

import "context"

// Provider abstracts the generation backend. Prompts are fully composed by
// the caller; the provider only supplies the system framing and temperature.
type Provider interface {
	Generate(ctx context.Context, prompt string, system string, temperature float32) (string, error)
}
