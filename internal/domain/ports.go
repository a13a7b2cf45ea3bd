package domain

import (
	"context"
	"iter"
)

// LLMClient defines how the core application interacts with an LLM service.
// Every failure is reported as an error wrapping ErrGenerationFailed.
type LLMClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// StreamingLLMClient is implemented by clients that can stream text chunks.
type StreamingLLMClient interface {
	LLMClient
	GenerateStream(ctx context.Context, req GenerationRequest) iter.Seq2[string, error]
}

// KVStore is the persistence port. Values are JSON documents addressed by key.
// Get reports ok=false for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KVLister is implemented by stores that can enumerate their keys.
type KVLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}
