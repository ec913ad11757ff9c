// Package storertest holds the behavioral suite every storer.Storer
// implementation is run against.
package storertest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/w-h-a/recipes/storer"
)

// Dimensions is the embedding length used by the suite.
const Dimensions = 3

// Factory returns an empty store configured for Dimensions.
type Factory func(t *testing.T) storer.Storer

func Run(t *testing.T, newStorer Factory) {
	t.Run("InsertManyAssignsIds", func(t *testing.T) { testInsertMany(t, newStorer(t)) })
	t.Run("UpdateEmbedding", func(t *testing.T) { testUpdateEmbedding(t, newStorer(t)) })
	t.Run("UpdateEmbeddingNotFound", func(t *testing.T) { testUpdateNotFound(t, newStorer(t)) })
	t.Run("DimensionMismatch", func(t *testing.T) { testDimensionMismatch(t, newStorer(t)) })
	t.Run("SearchThresholdIsStrict", func(t *testing.T) { testThresholdStrict(t, newStorer(t)) })
	t.Run("SearchOrderAndLimit", func(t *testing.T) { testOrderAndLimit(t, newStorer(t)) })
	t.Run("SearchTieBreakById", func(t *testing.T) { testTieBreak(t, newStorer(t)) })
	t.Run("SearchSkipsMissingEmbeddings", func(t *testing.T) { testSkipsMissing(t, newStorer(t)) })
	t.Run("SearchMonotonicThreshold", func(t *testing.T) { testMonotonic(t, newStorer(t)) })
	t.Run("SearchIgnoresZeroMagnitude", func(t *testing.T) { testZeroMagnitude(t, newStorer(t)) })
	t.Run("DuplicateTitlesAllowed", func(t *testing.T) { testDuplicateTitles(t, newStorer(t)) })
}

func testInsertMany(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	records, err := s.InsertMany(ctx, []string{"Pasta Carbonara", "Tomato Soup"})
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
	gt.NotEqual(t, records[0].Id, records[1].Id)

	all, err := s.SelectAll(ctx)
	gt.NoError(t, err)
	gt.A(t, all).Length(2)
	gt.Equal(t, all[0].Title, "Pasta Carbonara")
	gt.Equal(t, all[1].Title, "Tomato Soup")

	missing, err := s.SelectMissingEmbeddings(ctx)
	gt.NoError(t, err)
	gt.A(t, missing).Length(2)
}

func testUpdateEmbedding(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	records, err := s.InsertMany(ctx, []string{"Pasta Carbonara", "Tomato Soup"})
	gt.NoError(t, err)

	gt.NoError(t, s.UpdateEmbedding(ctx, records[0].Id, []float32{1, 0, 0}))

	missing, err := s.SelectMissingEmbeddings(ctx)
	gt.NoError(t, err)
	gt.A(t, missing).Length(1)
	gt.Equal(t, missing[0].Id, records[1].Id)

	matches, err := s.SearchBySimilarity(ctx, []float32{1, 0, 0}, 0.5, 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Title, "Pasta Carbonara")
	gt.True(t, math.Abs(matches[0].Similarity-1) < 1e-6)
}

func testUpdateNotFound(t *testing.T, s storer.Storer) {
	err := s.UpdateEmbedding(context.Background(), 424242, []float32{1, 0, 0})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, storer.ErrNotFound))
}

func testDimensionMismatch(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	records, err := s.InsertMany(ctx, []string{"Pasta Carbonara"})
	gt.NoError(t, err)

	err = s.UpdateEmbedding(ctx, records[0].Id, []float32{1, 0})
	gt.True(t, errors.Is(err, storer.ErrDimensionMismatch))

	_, err = s.Insert(ctx, "Tomato Soup", []float32{1, 0, 0, 0})
	gt.True(t, errors.Is(err, storer.ErrDimensionMismatch))

	_, err = s.SearchBySimilarity(ctx, []float32{1}, 0.5, 10)
	gt.True(t, errors.Is(err, storer.ErrDimensionMismatch))
}

func testThresholdStrict(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	// cos(a, q) == 0 exactly
	_, err := s.Insert(ctx, "orthogonal", []float32{0, 1, 0})
	gt.NoError(t, err)
	_, err = s.Insert(ctx, "identical", []float32{2, 0, 0})
	gt.NoError(t, err)

	matches, err := s.SearchBySimilarity(ctx, []float32{1, 0, 0}, 0, 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Title, "identical")
}

func testOrderAndLimit(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	vectors := map[string][]float32{
		"far":    {0.2, 1, 0},
		"close":  {1, 0.1, 0},
		"middle": {1, 1, 0},
		"same":   {3, 0, 0},
	}
	for _, title := range []string{"far", "close", "middle", "same"} {
		_, err := s.Insert(ctx, title, vectors[title])
		gt.NoError(t, err)
	}

	matches, err := s.SearchBySimilarity(ctx, []float32{1, 0, 0}, 0, 3)
	gt.NoError(t, err)
	gt.A(t, matches).Length(3)
	gt.Equal(t, matches[0].Title, "same")
	gt.Equal(t, matches[1].Title, "close")
	gt.Equal(t, matches[2].Title, "middle")

	for i := 1; i < len(matches); i++ {
		gt.True(t, matches[i-1].Similarity >= matches[i].Similarity)
	}

	none, err := s.SearchBySimilarity(ctx, []float32{1, 0, 0}, 0, 0)
	gt.NoError(t, err)
	gt.A(t, none).Length(0)
}

func testTieBreak(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	// both score exactly 1
	first, err := s.Insert(ctx, "first", []float32{1, 0, 0})
	gt.NoError(t, err)
	second, err := s.Insert(ctx, "second", []float32{2, 0, 0})
	gt.NoError(t, err)

	matches, err := s.SearchBySimilarity(ctx, []float32{1, 0, 0}, 0.5, 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(2)
	gt.Equal(t, matches[0].Id, first.Id)
	gt.Equal(t, matches[1].Id, second.Id)
}

func testSkipsMissing(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	_, err := s.InsertMany(ctx, []string{"no embedding yet"})
	gt.NoError(t, err)
	_, err = s.Insert(ctx, "embedded", []float32{0, 0, 1})
	gt.NoError(t, err)

	matches, err := s.SearchBySimilarity(ctx, []float32{0, 0, 1}, -1, 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Title, "embedded")
}

func testMonotonic(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	for i, v := range [][]float32{{1, 0, 0}, {1, 0.5, 0}, {1, 1, 0}, {0.5, 1, 0}, {0, 1, 0}} {
		_, err := s.Insert(ctx, string(rune('a'+i)), v)
		gt.NoError(t, err)
	}

	query := []float32{1, 0, 0}
	prev := -1
	for _, threshold := range []float64{0.9, 0.7, 0.4, 0.1, 0} {
		matches, err := s.SearchBySimilarity(ctx, query, threshold, 10)
		gt.NoError(t, err)
		for _, m := range matches {
			gt.True(t, m.Similarity > threshold)
		}
		gt.True(t, len(matches) >= prev)
		prev = len(matches)
	}
}

func testZeroMagnitude(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	_, err := s.Insert(ctx, "!!!", []float32{0, 0, 0})
	gt.NoError(t, err)
	_, err = s.Insert(ctx, "embedded", []float32{1, 0, 0})
	gt.NoError(t, err)

	matches, err := s.SearchBySimilarity(ctx, []float32{1, 0, 0}, -1, 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Title, "embedded")
	for _, m := range matches {
		gt.False(t, math.IsNaN(m.Similarity))
	}

	none, err := s.SearchBySimilarity(ctx, []float32{0, 0, 0}, -1, 10)
	gt.NoError(t, err)
	gt.A(t, none).Length(0)
}

func testDuplicateTitles(t *testing.T, s storer.Storer) {
	ctx := context.Background()

	_, err := s.InsertMany(ctx, []string{"Tomato Soup", "Tomato Soup"})
	gt.NoError(t, err)

	all, err := s.SelectAll(ctx)
	gt.NoError(t, err)
	gt.A(t, all).Length(2)
}
