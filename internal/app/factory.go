package app

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/embedder"
	"github.com/w-h-a/recipes/embedder/google"
	"github.com/w-h-a/recipes/embedder/hashing"
	"github.com/w-h-a/recipes/embedder/openai"
	"github.com/w-h-a/recipes/storer"
	"github.com/w-h-a/recipes/storer/memory"
	"github.com/w-h-a/recipes/storer/postgres"
	"github.com/w-h-a/recipes/storer/sqlite"
)

const DefaultSqlitePath = "recipes.db"

// ResolvedDimensions resolves the embedding length shared by the embedder and store.
func (c EmbedderConfig) ResolvedDimensions() int {
	if c.Dimensions > 0 {
		return c.Dimensions
	}

	switch c.Provider {
	case "google":
		return google.DefaultDimensions
	case "hashing":
		return hashing.DefaultDimensions
	default:
		model := c.Model
		if len(model) == 0 {
			model = openai.DefaultModel
		}
		return openai.DimensionsFor(model)
	}
}

func NewEmbedder(cfg EmbedderConfig) (embedder.Embedder, error) {
	opts := []embedder.Option{
		embedder.WithModel(cfg.Model),
		embedder.WithDimensions(cfg.ResolvedDimensions()),
	}

	switch cfg.Provider {
	case "openai", "":
		if len(cfg.OpenAIApiKey) == 0 {
			return nil, goerr.New("OPENAI_API_KEY is required for the openai provider")
		}
		return openai.NewEmbedder(append(opts, embedder.WithApiKey(cfg.OpenAIApiKey))...), nil
	case "google":
		if len(cfg.GoogleApiKey) == 0 {
			return nil, goerr.New("GOOGLE_API_KEY is required for the google provider")
		}
		return google.NewEmbedder(append(opts, embedder.WithApiKey(cfg.GoogleApiKey))...), nil
	case "hashing":
		return hashing.NewEmbedder(opts...), nil
	default:
		return nil, goerr.New("unknown embedding provider", goerr.V("provider", cfg.Provider))
	}
}

func NewStorer(cfg StoreConfig, dimensions int) (storer.Storer, error) {
	opts := []storer.Option{
		storer.WithDimensions(dimensions),
	}

	switch cfg.Driver {
	case "postgres", "":
		if len(cfg.DatabaseUrl) == 0 {
			return nil, goerr.New("DATABASE_URL is required for the postgres store")
		}
		return postgres.NewStorer(append(opts, storer.WithLocation(cfg.DatabaseUrl))...), nil
	case "sqlite":
		loc := cfg.DatabaseUrl
		if len(loc) == 0 {
			loc = DefaultSqlitePath
		}
		return sqlite.NewStorer(append(opts, storer.WithLocation(loc))...), nil
	case "memory":
		return memory.NewStorer(opts...), nil
	default:
		return nil, goerr.New("unknown store driver", goerr.V("driver", cfg.Driver))
	}
}

// Migrate creates the schema when the store needs one.
func Migrate(ctx context.Context, s storer.Storer) error {
	m, ok := s.(storer.Migrator)
	if !ok {
		return nil
	}
	return m.Migrate(ctx)
}
