package recommend

import (
	"testing"

	"github.com/niktanya/telegram-book-bot/model"
)

func TestBuildMatrixImplicitZero(t *testing.T) {
	m := BuildMatrix([]*model.Rating{
		{UserID: 1, BookID: 10, Rating: 5},
		{UserID: 2, BookID: 20, Rating: 3},
	})

	if got := m.Rating(1, 10); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
	if got := m.Rating(1, 20); got != 0 {
		t.Fatalf("missing pair must read as 0, got %v", got)
	}
	if got := m.Rating(99, 10); got != 0 {
		t.Fatalf("unknown user must read as 0, got %v", got)
	}
}

func TestBuildMatrixFirstSeenOrder(t *testing.T) {
	m := BuildMatrix([]*model.Rating{
		{UserID: 7, BookID: 30, Rating: 4},
		{UserID: 7, BookID: 10, Rating: 2},
		{UserID: 8, BookID: 30, Rating: 1},
	})

	books := m.Books()
	if len(books) != 2 || books[0] != 30 || books[1] != 10 {
		t.Fatalf("books must keep first-seen order, got %v", books)
	}
	users := m.Users()
	if len(users) != 2 || users[0] != 7 || users[1] != 8 {
		t.Fatalf("users must keep first-seen order, got %v", users)
	}
}

func TestBuildMatrixLaterRatingWins(t *testing.T) {
	m := BuildMatrix([]*model.Rating{
		{UserID: 1, BookID: 10, Rating: 2},
		{UserID: 1, BookID: 10, Rating: 5},
	})
	if got := m.Rating(1, 10); got != 5 {
		t.Fatalf("later rating must overwrite, got %v", got)
	}
}

func TestMatrixColumn(t *testing.T) {
	m := BuildMatrix([]*model.Rating{
		{UserID: 1, BookID: 10, Rating: 5},
		{UserID: 2, BookID: 10, Rating: 3},
		{UserID: 2, BookID: 20, Rating: 4},
	})

	col, ok := m.Column(10)
	if !ok {
		t.Fatal("expected a column for a rated book")
	}
	if len(col) != 2 || col[0] != 5 || col[1] != 3 {
		t.Fatalf("unexpected column %v", col)
	}
	if _, ok := m.Column(999); ok {
		t.Fatal("unrated book must have no column")
	}
}
