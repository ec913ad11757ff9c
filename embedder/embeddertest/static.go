// Package embeddertest provides a table-driven embedder for tests.
package embeddertest

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/embedder"
)

// Static answers Embed from a fixed table. Texts listed in Fail, or missing
// from Vectors, produce an embedding failure.
type Static struct {
	Vectors map[string][]float32
	Fail    map[string]bool

	mtx   sync.Mutex
	calls []string
}

func (s *Static) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mtx.Lock()
	s.calls = append(s.calls, text)
	s.mtx.Unlock()

	if s.Fail[text] {
		return nil, goerr.Wrap(errors.Join(embedder.ErrEmbeddingFailure, errors.New("provider unavailable")), "static embedder", goerr.V("text", text))
	}

	vec, ok := s.Vectors[text]
	if !ok {
		return nil, goerr.Wrap(embedder.ErrEmbeddingFailure, "no vector for text", goerr.V("text", text))
	}

	cpy := make([]float32, len(vec))
	copy(cpy, vec)
	return cpy, nil
}

// Calls lists every text passed to Embed, in order.
func (s *Static) Calls() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return append([]string(nil), s.calls...)
}

var _ embedder.Embedder = (*Static)(nil)
