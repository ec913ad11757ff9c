package postgres

import (
	"context"

	"github.com/w-h-a/recipes/storer"
)

func Truncate(ctx context.Context, s storer.Storer) error {
	_, err := s.(*postgresStorer).conn.ExecContext(ctx, "TRUNCATE recipes RESTART IDENTITY")
	return err
}
