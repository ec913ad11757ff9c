package google_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/w-h-a/recipes/embedder"
	"github.com/w-h-a/recipes/embedder/google"
)

func TestGoogleEmbedder(t *testing.T) {
	apiKey := os.Getenv("TEST_GOOGLE_API_KEY")
	if apiKey == "" {
		t.Skip("TEST_GOOGLE_API_KEY is not set")
	}

	e := google.NewEmbedder(
		embedder.WithApiKey(apiKey),
		embedder.WithDimensions(google.DefaultDimensions),
	)

	vec, err := e.Embed(context.Background(), "Pasta Carbonara")
	gt.NoError(t, err)
	gt.A(t, vec).Length(google.DefaultDimensions)
}
