package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/recipes/internal/app"
	"github.com/w-h-a/recipes/internal/handler/recipes"
	"github.com/w-h-a/recipes/internal/service/ingest"
	"github.com/w-h-a/recipes/internal/service/search"
	"github.com/w-h-a/recipes/server"
	httpserver "github.com/w-h-a/recipes/server/http"
)

var (
	cfg struct {
		Store    app.StoreConfig    `embed:""`
		Embedder app.EmbedderConfig `embed:""`
		Log      app.LogConfig      `embed:""`

		Address string `help:"Address to listen on" default:":8787" env:"ADDRESS"`
		Limit   int    `help:"Maximum number of search results" default:"10"`
	}
)

func main() {
	if err := app.LoadEnv(); err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	_ = kong.Parse(&cfg, kong.Description("Serve the recipe search UI and API."))
	cfg.Log.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Create embedder
	emb, err := app.NewEmbedder(cfg.Embedder)
	if err != nil {
		return err
	}

	// Create storer
	st, err := app.NewStorer(cfg.Store, cfg.Embedder.ResolvedDimensions())
	if err != nil {
		return err
	}
	defer st.Close()

	// Create services
	searchService := search.New(emb, st, search.WithLimit(cfg.Limit))
	ingestService := ingest.New(emb, st)

	// Create server
	srv := httpserver.NewServer(
		server.WithName("recipes"),
		server.WithAddress(cfg.Address),
		httpserver.WithMiddleware(
			httpserver.Recover,
			httpserver.RequestId,
			httpserver.AccessLog,
		),
	)

	recipes.NewHandler(searchService, ingestService).Register(srv)

	return srv.Run(ctx)
}
