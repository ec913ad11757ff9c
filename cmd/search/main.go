package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/recipes/internal/app"
	"github.com/w-h-a/recipes/internal/service/search"
)

var (
	cfg struct {
		Store    app.StoreConfig    `embed:""`
		Embedder app.EmbedderConfig `embed:""`
		Log      app.LogConfig      `embed:""`

		Query      string  `help:"Search text" required:""`
		Similarity float64 `help:"Similarity cutoff between 0 and 1" default:"0.5"`
		Limit      int     `help:"Maximum number of results" default:"10"`
	}
)

func main() {
	if err := app.LoadEnv(); err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	_ = kong.Parse(&cfg, kong.Description("Search recipes by meaning from the terminal."))
	cfg.Log.Apply()

	ctx := context.Background()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "search failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	emb, err := app.NewEmbedder(cfg.Embedder)
	if err != nil {
		return err
	}

	st, err := app.NewStorer(cfg.Store, cfg.Embedder.ResolvedDimensions())
	if err != nil {
		return err
	}
	defer st.Close()

	matches, err := search.New(emb, st, search.WithLimit(cfg.Limit)).Search(ctx, cfg.Query, cfg.Similarity)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Printf("No recipes above %.2f for %q\n", cfg.Similarity, cfg.Query)
		return nil
	}

	for _, m := range matches {
		fmt.Printf("%.4f  %s\n", m.Similarity, m.Title)
	}

	return nil
}
