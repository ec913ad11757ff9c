package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/recipes/internal/app"
	"github.com/w-h-a/recipes/internal/service/ingest"
)

var (
	cfg struct {
		Store    app.StoreConfig    `embed:""`
		Embedder app.EmbedderConfig `embed:""`
		Log      app.LogConfig      `embed:""`

		OnlyMissing bool `help:"Only embed records that have no embedding yet"`
		Verbose     bool `help:"Log the first components of each embedding (needs --log-level=debug)"`
	}
)

func main() {
	if err := app.LoadEnv(); err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	_ = kong.Parse(&cfg, kong.Description("Compute and store embeddings for existing recipes."))
	cfg.Log.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create recipe embeddings", "error", err)
		os.Exit(1)
	}

	if report.Failed > 0 {
		os.Exit(2)
	}
}

func run(ctx context.Context) (ingest.Report, error) {
	emb, err := app.NewEmbedder(cfg.Embedder)
	if err != nil {
		return ingest.Report{}, err
	}

	st, err := app.NewStorer(cfg.Store, cfg.Embedder.ResolvedDimensions())
	if err != nil {
		return ingest.Report{}, err
	}
	defer st.Close()

	return ingest.New(emb, st).Backfill(ctx, ingest.BackfillOptions{
		OnlyMissing: cfg.OnlyMissing,
		Verbose:     cfg.Verbose,
	})
}
