package storer

import "context"

type Storer interface {
	InsertMany(ctx context.Context, titles []string) ([]Record, error)
	Insert(ctx context.Context, title string, vector []float32) (Record, error)
	UpdateEmbedding(ctx context.Context, id int64, vector []float32) error
	SelectAll(ctx context.Context) ([]Record, error)
	SelectMissingEmbeddings(ctx context.Context) ([]Record, error)
	SearchBySimilarity(ctx context.Context, vector []float32, threshold float64, limit int) ([]Match, error)
	Close() error
}

// Migrator is implemented by stores that own their schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}
