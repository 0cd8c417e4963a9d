package store

import (
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

// UpsertRating stores a rating, replacing any earlier rating by the
// same user for the same book. The ON CONFLICT clause keeps the
// replace atomic, rapid repeated taps never produce lost updates.
func (s *Store) UpsertRating(bookID, userID int64, score int) (*model.Rating, error) {
	if !model.ValidRating(score) {
		return nil, errors.Errorf("rating %d out of range [%d,%d]", score, model.RatingMin, model.RatingMax)
	}

	stmt := `
		INSERT INTO rating (book_id, user_id, rating)
		VALUES (?, ?, ?)
		ON CONFLICT(book_id, user_id) DO UPDATE
		SET
			rating=EXCLUDED.rating,
			created_ts=(strftime('%s', 'now'))
		RETURNING id, book_id, user_id, rating, created_ts
	`
	var rating model.Rating
	if err := s.db.QueryRow(stmt, bookID, userID, score).Scan(
		&rating.ID,
		&rating.BookID,
		&rating.UserID,
		&rating.Rating,
		&rating.CreatedTs,
	); err != nil {
		log.Error("Failed to upsert rating",
			zap.Int64("book_id", bookID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, errors.Wrap(err, "failed to upsert rating")
	}

	return &rating, nil
}

// GetRating returns the rating for (bookID, userID) or nil if none exists.
func (s *Store) GetRating(bookID, userID int64) (*model.Rating, error) {
	stmt := `
		SELECT id, book_id, user_id, rating, created_ts
		FROM rating
		WHERE book_id = ? AND user_id = ?
	`
	var rating model.Rating
	err := s.db.QueryRow(stmt, bookID, userID).Scan(
		&rating.ID,
		&rating.BookID,
		&rating.UserID,
		&rating.Rating,
		&rating.CreatedTs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rating")
	}
	return &rating, nil
}

// ListRatings returns all ratings in insertion order. The rating
// matrix is rebuilt from this snapshot on every recommendation request.
func (s *Store) ListRatings() ([]*model.Rating, error) {
	query := `
		SELECT id, book_id, user_id, rating, created_ts
		FROM rating
		ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		log.Error("Failed to query ratings", zap.Error(err))
		return nil, errors.Wrap(err, "failed to query ratings")
	}
	defer rows.Close()

	list := make([]*model.Rating, 0)
	for rows.Next() {
		var rating model.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.BookID,
			&rating.UserID,
			&rating.Rating,
			&rating.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan rating")
		}
		list = append(list, &rating)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate ratings")
	}

	return list, nil
}

// ListUserRatings returns the user's ratings joined with book
// metadata, most recent first.
func (s *Store) ListUserRatings(userID int64) ([]*model.UserRating, error) {
	query := `
		SELECT
			r.rating,
			b.id,
			b.title_en,
			b.title_ru,
			b.authors_en,
			b.authors_ru,
			b.year,
			b.description,
			b.genre,
			b.created_ts
		FROM rating r
		JOIN book b ON r.book_id = b.id
		WHERE r.user_id = ?
		ORDER BY r.created_ts DESC, r.id DESC
	`
	rows, err := s.db.Query(query, userID)
	if err != nil {
		log.Error("Failed to query user ratings", zap.Int64("user_id", userID), zap.Error(err))
		return nil, errors.Wrap(err, "failed to query user ratings")
	}
	defer rows.Close()

	list := make([]*model.UserRating, 0)
	for rows.Next() {
		var ur model.UserRating
		var book model.Book
		var year, description, genre sql.NullString
		if err := rows.Scan(
			&ur.Rating,
			&book.ID,
			&book.TitleEN,
			&book.TitleRU,
			&book.AuthorsEN,
			&book.AuthorsRU,
			&year,
			&description,
			&genre,
			&book.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user rating")
		}
		book.Year = year.String
		book.Description = description.String
		book.Genre = genre.String
		ur.Book = &book
		list = append(list, &ur)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate user ratings")
	}

	return list, nil
}

// CountBooks and CountRatings let the orchestrator decide whether the
// collaborative path is worth attempting at all.
func (s *Store) CountBooks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM book`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count books")
	}
	return n, nil
}

func (s *Store) CountRatings() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM rating`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count ratings")
	}
	return n, nil
}
