package storer_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/w-h-a/recipes/storer"
)

func TestCosineSimilarity(t *testing.T) {
	testCases := []struct {
		name string
		a, b []float32
		want float64
		ok   bool
	}{
		{"identical", []float32{0.3, -1.2, 4}, []float32{0.3, -1.2, 4}, 1, true},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0, false},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0, false},
		{"empty", nil, nil, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := storer.CosineSimilarity(tc.a, tc.b)
			gt.Equal(t, ok, tc.ok)
			gt.True(t, math.Abs(got-tc.want) < 1e-6)
		})
	}
}

func TestCosineDistanceOfSelfIsZero(t *testing.T) {
	for _, v := range [][]float32{{1}, {0.1, 0.2, 0.3}, {-5, 3, 9, 0.25}} {
		d, ok := storer.CosineDistance(v, v)
		gt.True(t, ok)
		gt.True(t, math.Abs(d) < 1e-6)
	}
}

func TestRank(t *testing.T) {
	matches := []storer.Match{
		{Id: 4, Title: "d", Similarity: 0.5},
		{Id: 1, Title: "a", Similarity: 0.9},
		{Id: 3, Title: "c", Similarity: 0.7},
		{Id: 2, Title: "b", Similarity: 0.7},
		{Id: 5, Title: "e", Similarity: 0.2},
	}

	t.Run("threshold is strict", func(t *testing.T) {
		got := storer.Rank(matches, 0.5, 10)
		gt.A(t, got).Length(3)
		gt.Equal(t, got[0].Id, int64(1))
	})

	t.Run("ties break by id", func(t *testing.T) {
		got := storer.Rank(matches, 0.6, 10)
		gt.A(t, got).Length(3)
		gt.Equal(t, got[1].Id, int64(2))
		gt.Equal(t, got[2].Id, int64(3))
	})

	t.Run("limit", func(t *testing.T) {
		got := storer.Rank(matches, 0, 2)
		gt.A(t, got).Length(2)
		gt.Equal(t, got[0].Id, int64(1))
		gt.Equal(t, got[1].Id, int64(2))
	})

	t.Run("zero limit", func(t *testing.T) {
		gt.A(t, storer.Rank(matches, 0, 0)).Length(0)
	})
}

func TestIsZero(t *testing.T) {
	gt.True(t, storer.IsZero([]float32{0, 0, 0}))
	gt.True(t, storer.IsZero(nil))
	gt.False(t, storer.IsZero([]float32{0, 1e-9, 0}))
}
