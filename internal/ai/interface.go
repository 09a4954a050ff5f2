package ai

import (
	"context"
)

// TextGenerator is a raw language model call.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextFormatter always returns usable text: the model's answer, or fallback.
type TextFormatter interface {
	Format(ctx context.Context, prompt, fallback string) string
}
