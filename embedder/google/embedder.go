package google

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/embedder"
	genaiopt "google.golang.org/api/option"
)

const (
	DefaultModel      = "text-embedding-004"
	DefaultDimensions = 768
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.options.Model)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, goerr.Wrap(errors.Join(embedder.ErrEmbeddingFailure, err), "google embeddings request failed", goerr.V("model", e.options.Model))
	}

	if rsp == nil || rsp.Embedding == nil {
		return nil, goerr.Wrap(embedder.ErrEmbeddingFailure, "no response from Google")
	}

	return embedder.Finish(e.options, "Google", rsp.Embedding.Values)
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = DefaultModel
	}

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		detail := "failed to initialize google embedder"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	e.client = client

	return e
}
