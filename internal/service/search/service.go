package search

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/embedder"
	"github.com/w-h-a/recipes/internal/logging"
	"github.com/w-h-a/recipes/storer"
)

const (
	DefaultThreshold = 0.5
	DefaultLimit     = 10
)

var ErrInvalidQuery = errors.New("invalid query")

type Service struct {
	embedder embedder.Embedder
	storer   storer.Storer
	limit    int
}

// Search embeds query and returns at most the configured number of records
// whose similarity to it is strictly greater than threshold, best first.
func (s *Service) Search(ctx context.Context, query string, threshold float64) ([]storer.Match, error) {
	if len(strings.TrimSpace(query)) == 0 {
		return nil, goerr.Wrap(ErrInvalidQuery, "search query is required")
	}

	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, goerr.Wrap(ErrInvalidQuery, "similarity must be between 0 and 1", goerr.V("similarity", threshold))
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if !errors.Is(err, embedder.ErrEmbeddingFailure) {
			err = errors.Join(embedder.ErrEmbeddingFailure, err)
		}
		return nil, goerr.Wrap(err, "failed to embed query", goerr.V("query", query))
	}

	matches, err := s.storer.SearchBySimilarity(ctx, vec, threshold, s.limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search recipes", goerr.V("query", query))
	}

	logging.From(ctx).DebugContext(ctx, "searched recipes", "query", query, "similarity", threshold, "results", len(matches))

	return matches, nil
}

// List returns every record without embeddings.
func (s *Service) List(ctx context.Context) ([]storer.Record, error) {
	records, err := s.storer.SelectAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recipes")
	}
	return records, nil
}

func (s *Service) Limit() int {
	return s.limit
}

type Option func(*Service)

// WithLimit overrides DefaultLimit.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func New(
	embedder embedder.Embedder,
	storer storer.Storer,
	opts ...Option,
) *Service {
	if embedder == nil {
		panic("embedder is required")
	}

	if storer == nil {
		panic("storer is required")
	}

	s := &Service{
		embedder: embedder,
		storer:   storer,
		limit:    DefaultLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
