// Package hashing implements an offline embedder based on feature hashing of
// word and character trigram features. Vectors are always unit length.
package hashing

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/embedder"
)

const DefaultDimensions = 384

type hashingEmbedder struct {
	options embedder.Options
}

func (e *hashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(embedder.ErrEmbeddingFailure, err.Error())
	}

	vec := make([]float32, e.options.Dimensions)

	for _, word := range tokenize(text) {
		e.add(vec, "w:"+word, 1)
		padded := "^" + word + "$"
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			e.add(vec, "t:"+string(runes[i:i+3]), 0.5)
		}
	}

	return embedder.Finish(e.options, "hashing", embedder.Normalize(vec))
}

func (e *hashingEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	idx := sum % uint64(len(vec))
	if sum&(1<<63) != 0 {
		weight = -weight
	}

	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if options.Dimensions <= 0 {
		options.Dimensions = DefaultDimensions
	}

	options.Normalize = true

	return &hashingEmbedder{
		options: options,
	}
}
