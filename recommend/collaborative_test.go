package recommend

import (
	"math"
	"testing"

	"github.com/niktanya/telegram-book-bot/model"
)

func ratingsFixture() []*model.Rating {
	// Books 10 and 20 are rated identically by both users, book 30
	// is only liked by user 2.
	return []*model.Rating{
		{UserID: 1, BookID: 10, Rating: 5},
		{UserID: 1, BookID: 20, Rating: 5},
		{UserID: 2, BookID: 10, Rating: 4},
		{UserID: 2, BookID: 20, Rating: 4},
		{UserID: 2, BookID: 30, Rating: 5},
	}
}

func TestCollaborativeRanking(t *testing.T) {
	m := BuildMatrix(ratingsFixture())

	got := Collaborative(10, m, 5, 0.3)
	if len(got) == 0 {
		t.Fatal("expected results")
	}
	if got[0].BookID != 20 {
		t.Fatalf("identical rating columns must rank first, got %+v", got)
	}
	if math.Abs(got[0].Score-1.0) > 1e-9 {
		t.Fatalf("identical columns must score 1.0, got %v", got[0].Score)
	}
	for _, s := range got {
		if s.BookID == 10 {
			t.Fatal("target book must be excluded from its own results")
		}
		if s.Score < 0 || s.Score > 1 {
			t.Fatalf("cosine of non-negative vectors must stay in [0,1], got %v", s.Score)
		}
	}
}

func TestCollaborativeThreshold(t *testing.T) {
	m := BuildMatrix([]*model.Rating{
		{UserID: 1, BookID: 10, Rating: 5},
		{UserID: 2, BookID: 20, Rating: 5},
	})

	// Disjoint rater sets: similarity is exactly 0.
	if got := Collaborative(10, m, 5, 0.3); len(got) != 0 {
		t.Fatalf("below-threshold scores must be dropped, got %+v", got)
	}
	if got := Collaborative(10, m, 5, 0); len(got) != 1 {
		t.Fatalf("threshold 0 keeps zero-score entries, got %+v", got)
	}
}

func TestCollaborativeUnknownBook(t *testing.T) {
	m := BuildMatrix(ratingsFixture())
	if got := Collaborative(999, m, 5, 0.3); got != nil {
		t.Fatalf("book absent from the matrix must yield nil, got %+v", got)
	}
}

func TestCollaborativeTopK(t *testing.T) {
	m := BuildMatrix(ratingsFixture())
	got := Collaborative(10, m, 1, 0)
	if len(got) != 1 {
		t.Fatalf("expected k=1 to cap results, got %d", len(got))
	}
}

func TestCollaborativeTiebreak(t *testing.T) {
	// Books 20 and 30 have identical columns, both perfectly similar
	// to book 10. The lower book ID must come first.
	m := BuildMatrix([]*model.Rating{
		{UserID: 1, BookID: 10, Rating: 4},
		{UserID: 1, BookID: 30, Rating: 4},
		{UserID: 1, BookID: 20, Rating: 4},
	})
	got := Collaborative(10, m, 5, 0.3)
	if len(got) != 2 {
		t.Fatalf("expected two results, got %+v", got)
	}
	if got[0].BookID != 20 || got[1].BookID != 30 {
		t.Fatalf("equal scores must break ties by lower book ID, got %+v", got)
	}
}

func TestCosineZeroVector(t *testing.T) {
	if got := cosine([]float64{0, 0}, []float64{1, 2}); got != 0 {
		t.Fatalf("zero vector must score 0, got %v", got)
	}
	if got := cosine([]float64{0, 0}, []float64{0, 0}); got != 0 {
		t.Fatalf("two zero vectors must score 0, got %v", got)
	}
}
