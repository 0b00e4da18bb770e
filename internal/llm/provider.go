package llm

import (
	"context"
	"io"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// Synthesizer turns text into encoded speech (mp3).
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
