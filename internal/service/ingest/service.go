package ingest

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/embedder"
	"github.com/w-h-a/recipes/internal/logging"
	"github.com/w-h-a/recipes/storer"
)

type SeedOptions struct {
	// Dedup skips titles that already exist or repeat within the input.
	Dedup bool
}

type BackfillOptions struct {
	// OnlyMissing restricts the run to records without an embedding.
	OnlyMissing bool
	// Verbose logs a preview of each embedding at debug level.
	Verbose bool
}

// Report summarizes a batch run. A failed record is logged and skipped.
type Report struct {
	Total   int           `json:"total"`
	Updated int           `json:"updated"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"-"`
}

// Service fills the store. Seed works without an embedder.
type Service struct {
	embedder embedder.Embedder
	storer   storer.Storer
}

// Seed inserts titles without embeddings.
func (s *Service) Seed(ctx context.Context, titles []string, opts SeedOptions) ([]storer.Record, error) {
	toInsert := titles

	if opts.Dedup {
		existing, err := s.storer.SelectAll(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load existing recipes")
		}

		seen := make(map[string]struct{}, len(existing))
		for _, rec := range existing {
			seen[rec.Title] = struct{}{}
		}

		toInsert = make([]string, 0, len(titles))
		for _, title := range titles {
			if _, ok := seen[title]; ok {
				logging.From(ctx).DebugContext(ctx, "skipping existing recipe", "title", title)
				continue
			}
			seen[title] = struct{}{}
			toInsert = append(toInsert, title)
		}
	}

	if len(toInsert) == 0 {
		return []storer.Record{}, nil
	}

	records, err := s.storer.InsertMany(ctx, toInsert)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to seed recipes", goerr.V("count", len(toInsert)))
	}

	logging.From(ctx).InfoContext(ctx, "seeded recipes", "inserted", len(records), "skipped", len(titles)-len(records))

	return records, nil
}

// Backfill computes and stores an embedding for each record, one at a time.
func (s *Service) Backfill(ctx context.Context, opts BackfillOptions) (Report, error) {
	if s.embedder == nil {
		return Report{}, goerr.New("embedder is required for backfill")
	}

	start := time.Now()
	logger := logging.From(ctx)

	var (
		records []storer.Record
		err     error
	)

	if opts.OnlyMissing {
		records, err = s.storer.SelectMissingEmbeddings(ctx)
	} else {
		records, err = s.storer.SelectAll(ctx)
	}
	if err != nil {
		return Report{}, goerr.Wrap(err, "failed to load recipes for backfill")
	}

	report := Report{Total: len(records)}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, goerr.Wrap(err, "backfill cancelled", goerr.V("updated", report.Updated))
		}

		vec, err := s.embedder.Embed(ctx, rec.Title)
		if err != nil {
			report.Failed++
			logger.WarnContext(ctx, "failed to embed recipe", "id", rec.Id, "title", rec.Title, "error", err)
			continue
		}

		if opts.Verbose {
			logger.DebugContext(ctx, "embedded recipe", "id", rec.Id, "title", rec.Title, "embedding", embedder.Preview(vec, 5))
		}

		if err := s.storer.UpdateEmbedding(ctx, rec.Id, vec); err != nil {
			report.Failed++
			logger.WarnContext(ctx, "failed to store embedding", "id", rec.Id, "title", rec.Title, "error", err)
			continue
		}

		report.Updated++
	}

	report.Elapsed = time.Since(start)

	logger.InfoContext(ctx, "embeddings created for recipes",
		"total", report.Total,
		"updated", report.Updated,
		"failed", report.Failed,
		"elapsed", report.Elapsed,
	)

	return report, nil
}

// Import embeds each title and inserts it together with its embedding.
func (s *Service) Import(ctx context.Context, titles []string, opts BackfillOptions) (Report, error) {
	if s.embedder == nil {
		return Report{}, goerr.New("embedder is required for import")
	}

	start := time.Now()
	logger := logging.From(ctx)

	report := Report{Total: len(titles)}

	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return report, goerr.Wrap(err, "import cancelled", goerr.V("updated", report.Updated))
		}

		vec, err := s.embedder.Embed(ctx, title)
		if err != nil {
			report.Failed++
			logger.WarnContext(ctx, "failed to embed recipe", "title", title, "error", err)
			continue
		}

		rec, err := s.storer.Insert(ctx, title, vec)
		if err != nil {
			report.Failed++
			logger.WarnContext(ctx, "failed to insert recipe", "title", title, "error", err)
			continue
		}

		if opts.Verbose {
			logger.DebugContext(ctx, "imported recipe", "id", rec.Id, "title", title, "embedding", embedder.Preview(vec, 5))
		}

		report.Updated++
	}

	report.Elapsed = time.Since(start)

	logger.InfoContext(ctx, "imported recipes",
		"total", report.Total,
		"inserted", report.Updated,
		"failed", report.Failed,
		"elapsed", report.Elapsed,
	)

	return report, nil
}

func New(
	embedder embedder.Embedder,
	storer storer.Storer,
) *Service {
	if storer == nil {
		panic("storer is required")
	}

	return &Service{
		embedder: embedder,
		storer:   storer,
	}
}
