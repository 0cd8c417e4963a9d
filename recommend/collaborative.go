package recommend

import (
	"math"
	"sort"
)

// ScoredBook is one item-item similarity result.
type ScoredBook struct {
	BookID int64
	Score  float64
}

// Collaborative ranks catalog books by cosine similarity of their
// rating columns against the target book. The target itself is
// excluded, entries below threshold are dropped and at most k results
// are returned, sorted by similarity descending with lower book ID
// winning ties. An empty result means the caller must fall back to
// the generative recommender, it is never an error.
func Collaborative(bookID int64, m *Matrix, k int, threshold float64) []ScoredBook {
	target, ok := m.Column(bookID)
	if !ok {
		return nil
	}

	scored := make([]ScoredBook, 0, len(m.Books()))
	for _, other := range m.Books() {
		if other == bookID {
			continue
		}
		col, _ := m.Column(other)
		score := cosine(target, col)
		if score < threshold {
			continue
		}
		scored = append(scored, ScoredBook{BookID: other, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].BookID < scored[j].BookID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// cosine is dot(a,b)/(|a|*|b|). An all-zero vector has similarity 0
// against anything, never a division by zero. Ratings are
// non-negative so the result stays in [0,1].
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
