package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/recipes/internal/app"
	"github.com/w-h-a/recipes/internal/service/ingest"
)

var (
	cfg struct {
		Store    app.StoreConfig    `embed:""`
		Embedder app.EmbedderConfig `embed:""`
		Log      app.LogConfig      `embed:""`

		File  string `arg:"" optional:"" help:"Titles file (.json, .yaml or one per line)" default:"data/recipe-titles.json" type:"existingfile"`
		Dedup bool   `help:"Skip titles that already exist"`
	}
)

func main() {
	if err := app.LoadEnv(); err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	_ = kong.Parse(&cfg, kong.Description("Seed recipe titles without embeddings."))
	cfg.Log.Apply()

	ctx := context.Background()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "seeding failed", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "seeding completed")
}

func run(ctx context.Context) error {
	titles, err := ingest.LoadTitles(cfg.File)
	if err != nil {
		return err
	}

	st, err := app.NewStorer(cfg.Store, cfg.Embedder.ResolvedDimensions())
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = ingest.New(nil, st).Seed(ctx, titles, ingest.SeedOptions{Dedup: cfg.Dedup})
	return err
}
