package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/recipes/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultModel = string(openai.SmallEmbedding3)
	// DefaultDimensions is the native length of text-embedding-3-small.
	DefaultDimensions = 1536
)

// DimensionsFor returns the native embedding length of model.
func DimensionsFor(model string) int {
	if model == string(openai.LargeEmbedding3) {
		return 3072
	}
	return DefaultDimensions
}

// shortenable reports whether model accepts a requested output size.
func shortenable(model string) bool {
	return strings.HasPrefix(model, "text-embedding-3-")
}

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	}

	if e.options.Dimensions > 0 && shortenable(e.options.Model) {
		req.Dimensions = e.options.Dimensions
	}

	rsp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(embedder.ErrEmbeddingFailure, err), "openai embeddings request failed", goerr.V("model", e.options.Model))
	}

	if len(rsp.Data) == 0 {
		return nil, goerr.Wrap(embedder.ErrEmbeddingFailure, "no response from OpenAI")
	}

	return embedder.Finish(e.options, "OpenAI", rsp.Data[0].Embedding)
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = DefaultModel
	}

	e := &openAIEmbedder{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.Location) > 0 {
		cfg.BaseURL = options.Location
	}
	cfg.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	e.client = openai.NewClientWithConfig(cfg)

	return e
}
