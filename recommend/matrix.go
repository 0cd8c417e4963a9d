package recommend

import (
	"github.com/niktanya/telegram-book-bot/model"
)

// Matrix is a dense user×book rating matrix. Missing (user, book)
// pairs are 0, not "unknown": the implicit zero biases similarity
// toward overlapping explicit ratings instead of neutral fill, and
// that semantic must not be optimized away. The matrix is rebuilt
// from a ratings snapshot on every recommendation request, the
// O(users × books) materialization is a known cost at this catalog
// size.
type Matrix struct {
	users     []int64
	books     []int64
	userIndex map[int64]int
	bookIndex map[int64]int
	cells     [][]float64 // [user][book]
}

// BuildMatrix materializes the matrix from a ratings snapshot.
// Users and books keep first-seen order, which is insertion order
// when the snapshot comes from the store.
func BuildMatrix(ratings []*model.Rating) *Matrix {
	m := &Matrix{
		userIndex: make(map[int64]int),
		bookIndex: make(map[int64]int),
	}

	for _, r := range ratings {
		if _, ok := m.userIndex[r.UserID]; !ok {
			m.userIndex[r.UserID] = len(m.users)
			m.users = append(m.users, r.UserID)
		}
		if _, ok := m.bookIndex[r.BookID]; !ok {
			m.bookIndex[r.BookID] = len(m.books)
			m.books = append(m.books, r.BookID)
		}
	}

	m.cells = make([][]float64, len(m.users))
	for i := range m.cells {
		m.cells[i] = make([]float64, len(m.books))
	}
	for _, r := range ratings {
		// A later rating for the same (user, book) overwrites the
		// earlier cell, mirroring the store's upsert semantics.
		m.cells[m.userIndex[r.UserID]][m.bookIndex[r.BookID]] = float64(r.Rating)
	}

	return m
}

// Books returns book IDs in first-seen order.
func (m *Matrix) Books() []int64 {
	return m.books
}

// Users returns user IDs in first-seen order.
func (m *Matrix) Users() []int64 {
	return m.users
}

// Rating returns the stored rating or 0 when the pair is absent.
func (m *Matrix) Rating(userID, bookID int64) float64 {
	u, ok := m.userIndex[userID]
	if !ok {
		return 0
	}
	b, ok := m.bookIndex[bookID]
	if !ok {
		return 0
	}
	return m.cells[u][b]
}

// Column returns the user-dimension rating vector of a book.
// The bool is false when the book has no ratings at all.
func (m *Matrix) Column(bookID int64) ([]float64, bool) {
	b, ok := m.bookIndex[bookID]
	if !ok {
		return nil, false
	}
	col := make([]float64, len(m.users))
	for u := range m.cells {
		col[u] = m.cells[u][b]
	}
	return col, true
}
