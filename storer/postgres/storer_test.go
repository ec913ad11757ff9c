package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/w-h-a/recipes/storer"
	"github.com/w-h-a/recipes/storer/postgres"
	"github.com/w-h-a/recipes/storer/storertest"
)

func TestPostgresStorer(t *testing.T) {
	location := os.Getenv("TEST_DATABASE_URL")
	if location == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	storertest.Run(t, func(t *testing.T) storer.Storer {
		s := postgres.NewStorer(
			storer.WithLocation(location),
			storer.WithDimensions(storertest.Dimensions),
		)

		ctx := context.Background()
		m, ok := s.(storer.Migrator)
		gt.True(t, ok)
		gt.NoError(t, m.Migrate(ctx))

		gt.NoError(t, postgres.Truncate(ctx, s))
		t.Cleanup(func() {
			gt.NoError(t, postgres.Truncate(context.Background(), s))
			s.Close()
		})

		return s
	})
}
