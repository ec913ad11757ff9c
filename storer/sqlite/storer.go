package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/storer"
)

type sqliteStorer struct {
	options storer.Options
	conn    *sql.DB
}

func (s *sqliteStorer) Migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return storer.Failure(err, "failed to migrate recipes schema")
	}
	return nil
}

func (s *sqliteStorer) InsertMany(ctx context.Context, titles []string) ([]storer.Record, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, storer.Failure(err, "failed to begin insert")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO recipes (title, created_at, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, storer.Failure(err, "failed to prepare insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()

	records := make([]storer.Record, 0, len(titles))
	for _, title := range titles {
		res, err := stmt.ExecContext(ctx, title, now, now)
		if err != nil {
			return nil, storer.Failure(err, "failed to insert recipe", goerr.V("title", title))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storer.Failure(err, "failed to read recipe id", goerr.V("title", title))
		}
		records = append(records, storer.Record{
			Id:        id,
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, storer.Failure(err, "failed to commit insert")
	}

	return records, nil
}

func (s *sqliteStorer) Insert(ctx context.Context, title string, vector []float32) (storer.Record, error) {
	if err := storer.CheckDimensions(s.options, vector); err != nil {
		return storer.Record{}, err
	}

	now := time.Now().UTC()

	res, err := s.conn.ExecContext(
		ctx,
		`INSERT INTO recipes (title, embedding, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		title,
		encodeEmbedding(vector),
		now,
		now,
	)
	if err != nil {
		return storer.Record{}, storer.Failure(err, "failed to insert recipe", goerr.V("title", title))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storer.Record{}, storer.Failure(err, "failed to read recipe id", goerr.V("title", title))
	}

	return storer.Record{
		Id:        id,
		Title:     title,
		Embedding: vector,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *sqliteStorer) UpdateEmbedding(ctx context.Context, id int64, vector []float32) error {
	if err := storer.CheckDimensions(s.options, vector); err != nil {
		return err
	}

	res, err := s.conn.ExecContext(
		ctx,
		`UPDATE recipes SET embedding = ?, updated_at = ? WHERE id = ?`,
		encodeEmbedding(vector),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return storer.Failure(err, "failed to update embedding", goerr.V("id", id))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storer.Failure(err, "failed to read affected rows", goerr.V("id", id))
	}

	if n == 0 {
		return goerr.Wrap(storer.ErrNotFound, "cannot update embedding", goerr.V("id", id))
	}

	return nil
}

func (s *sqliteStorer) SelectAll(ctx context.Context) ([]storer.Record, error) {
	return s.selectRecords(ctx, `SELECT id, title, created_at, updated_at FROM recipes ORDER BY id`)
}

func (s *sqliteStorer) SelectMissingEmbeddings(ctx context.Context) ([]storer.Record, error) {
	return s.selectRecords(ctx, `SELECT id, title, created_at, updated_at FROM recipes WHERE embedding IS NULL ORDER BY id`)
}

func (s *sqliteStorer) selectRecords(ctx context.Context, query string) ([]storer.Record, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, storer.Failure(err, "failed to select recipes")
	}
	defer rows.Close()

	records := []storer.Record{}

	for rows.Next() {
		var rec storer.Record
		if err := rows.Scan(&rec.Id, &rec.Title, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, storer.Failure(err, "failed to scan recipe")
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, storer.Failure(err, "failed to iterate recipes")
	}

	return records, nil
}

func (s *sqliteStorer) SearchBySimilarity(ctx context.Context, vector []float32, threshold float64, limit int) ([]storer.Match, error) {
	if err := storer.CheckDimensions(s.options, vector); err != nil {
		return nil, err
	}

	if limit < 1 {
		return []storer.Match{}, nil
	}

	query := `
		SELECT id, title, similarity
		FROM (
			SELECT id, title, ` + similarityFunc + `(embedding, ?) AS similarity
			FROM recipes
			WHERE embedding IS NOT NULL
		)
		WHERE similarity IS NOT NULL AND similarity > ?
		ORDER BY similarity DESC, id ASC
		LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, encodeEmbedding(vector), threshold, limit)
	if err != nil {
		return nil, storer.Failure(err, "failed to search recipes")
	}
	defer rows.Close()

	matches := []storer.Match{}

	for rows.Next() {
		var m storer.Match
		if err := rows.Scan(&m.Id, &m.Title, &m.Similarity); err != nil {
			return nil, storer.Failure(err, "failed to scan match")
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, storer.Failure(err, "failed to iterate matches")
	}

	return matches, nil
}

func (s *sqliteStorer) Close() error {
	return s.conn.Close()
}

// NewStorer opens the database at the configured location (":memory:" for
// an in-process store) and ensures the recipes table exists.
func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &sqliteStorer{
		options: options,
	}

	if err := registerFunctions(); err != nil {
		detail := "failed to register sqlite vector functions"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	conn, err := sql.Open("sqlite", options.Location)
	if err != nil {
		detail := "failed to open sqlite storer"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	// a single connection keeps ":memory:" databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	s.conn = conn

	if err := s.Migrate(context.Background()); err != nil {
		detail := "failed to initialize sqlite schema"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	return s
}
