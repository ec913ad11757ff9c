package embedder

import (
	"fmt"
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// Normalize returns a unit-length copy of vec. A zero vector is returned as is.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	out := make([]float32, len(vec))
	if sum == 0 {
		copy(out, vec)
		return out
	}

	norm := math.Sqrt(sum)
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}

	return out
}

// Finish applies the post-processing shared by every provider: it checks the
// response is usable and non-zero, enforces the requested dimension and
// normalizes when asked to.
func Finish(options Options, provider string, vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, goerr.Wrap(ErrEmbeddingFailure, fmt.Sprintf("no response from %s", provider))
	}

	if options.Dimensions > 0 && len(vec) != options.Dimensions {
		return nil, goerr.Wrap(
			ErrEmbeddingFailure,
			"unexpected embedding length",
			goerr.V("provider", provider),
			goerr.V("want", options.Dimensions),
			goerr.V("got", len(vec)),
		)
	}

	if isZero(vec) {
		return nil, goerr.Wrap(ErrEmbeddingFailure, "zero-magnitude embedding", goerr.V("provider", provider))
	}

	if options.Normalize {
		return Normalize(vec), nil
	}

	return vec, nil
}

func isZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// Preview renders the leading components of vec for log output.
func Preview(vec []float32, n int) []float32 {
	if len(vec) < n {
		n = len(vec)
	}
	return vec[:n]
}
