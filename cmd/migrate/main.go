package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/recipes/internal/app"
)

var (
	cfg struct {
		Store    app.StoreConfig    `embed:""`
		Embedder app.EmbedderConfig `embed:""`
		Log      app.LogConfig      `embed:""`
	}
)

func main() {
	if err := app.LoadEnv(); err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	_ = kong.Parse(&cfg, kong.Description("Enable pgvector and create the recipes table."))
	cfg.Log.Apply()

	ctx := context.Background()

	st, err := app.NewStorer(cfg.Store, cfg.Embedder.ResolvedDimensions())
	if err != nil {
		slog.ErrorContext(ctx, "migration failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := app.Migrate(ctx, st); err != nil {
		slog.ErrorContext(ctx, "migration failed", "error", err)
		st.Close()
		os.Exit(1)
	}

	slog.InfoContext(ctx, "migration complete", "driver", cfg.Store.Driver, "dimensions", cfg.Embedder.ResolvedDimensions())
}
