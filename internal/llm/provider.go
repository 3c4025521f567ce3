package llm

import "context"

// Provider abstracts the generative model behind the agents. All
// methods are blocking and honor context cancellation.
type Provider interface {
	// GenerateContent produces text from a prompt. Temperature is in
	// the model's native 0..1 range.
	GenerateContent(ctx context.Context, prompt string, temperature float32) (string, error)

	// GenerateFromMedia produces text from a prompt plus an inline
	// image or PDF payload.
	GenerateFromMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)

	// GenerateImage renders an image for the prompt, returning the raw
	// bytes and their MIME type.
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}
