package storer

import (
	"math"
	"sort"
)

// CosineSimilarity returns a·b / (‖a‖·‖b‖). ok is false when the vectors
// differ in length, are empty, or either has zero magnitude.
func CosineSimilarity(a, b []float32) (sim float64, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// IsZero reports whether every component of vector is zero. Such a vector has
// no direction and matches nothing.
func IsZero(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}

// CosineDistance is 1 - CosineSimilarity.
func CosineDistance(a, b []float32) (float64, bool) {
	sim, ok := CosineSimilarity(a, b)
	if !ok {
		return 0, false
	}
	return 1 - sim, true
}

// Rank keeps matches strictly above threshold, orders them by similarity
// descending then id ascending, and truncates to limit.
func Rank(matches []Match, threshold float64, limit int) []Match {
	if limit < 1 {
		return []Match{}
	}

	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Similarity > threshold {
			kept = append(kept, m)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Similarity != kept[j].Similarity {
			return kept[i].Similarity > kept[j].Similarity
		}
		return kept[i].Id < kept[j].Id
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	return kept
}
