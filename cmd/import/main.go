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

		File    string `arg:"" optional:"" help:"Titles file (.json, .yaml or one per line)" default:"data/recipe-titles.json" type:"existingfile"`
		Verbose bool   `help:"Log the first components of each embedding (needs --log-level=debug)"`
	}
)

func main() {
	if err := app.LoadEnv(); err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	_ = kong.Parse(&cfg, kong.Description("Embed recipe titles from a file and insert them with their embeddings."))
	cfg.Log.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to import recipes", "error", err)
		os.Exit(1)
	}

	if report.Failed > 0 {
		os.Exit(2)
	}
}

func run(ctx context.Context) (ingest.Report, error) {
	titles, err := ingest.LoadTitles(cfg.File)
	if err != nil {
		return ingest.Report{}, err
	}

	emb, err := app.NewEmbedder(cfg.Embedder)
	if err != nil {
		return ingest.Report{}, err
	}

	st, err := app.NewStorer(cfg.Store, cfg.Embedder.ResolvedDimensions())
	if err != nil {
		return ingest.Report{}, err
	}
	defer st.Close()

	return ingest.New(emb, st).Import(ctx, titles, ingest.BackfillOptions{Verbose: cfg.Verbose})
}
