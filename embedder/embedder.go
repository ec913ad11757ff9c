package embedder

import (
	"context"
	"errors"
)

// ErrEmbeddingFailure marks any failure to obtain a vector from a provider.
var ErrEmbeddingFailure = errors.New("embedding failure")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
