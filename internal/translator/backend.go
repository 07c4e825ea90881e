package translator

import (
	"context"

	"shuttle/internal/chunking"
	"shuttle/internal/services/llm"
)

// Request is the payload handed to a backend for one chunk.
type Request struct {
	System string
	User   string
	Chunk  chunking.Chunk
}

// Backend produces a translation reply for a chunk request. Implementations
// own their transport concerns, including timeouts and transport-level
// retries.
type Backend interface {
	Name() string
	Model() string
	Translate(ctx context.Context, req Request) (string, error)
}

// LLMBackend adapts the OpenRouter chat client to the Backend interface.
type LLMBackend struct {
	client *llm.Client
}

// NewLLMBackend wraps an LLM client.
func NewLLMBackend(client *llm.Client) *LLMBackend {
	return &LLMBackend{client: client}
}

func (b *LLMBackend) Name() string { return "openrouter" }

func (b *LLMBackend) Model() string { return b.client.Model() }

func (b *LLMBackend) Translate(ctx context.Context, req Request) (string, error) {
	return b.client.Complete(ctx, req.System, req.User)
}
