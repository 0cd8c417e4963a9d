package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

func (s *Store) GetBook(find *model.FindBook) (*model.Book, error) {
	if find.ID != nil {
		if cache, ok := s.BookCache.Load(*find.ID); ok {
			return cache.(*model.Book), nil
		}
	}

	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	book := list[0]
	s.BookCache.Store(book.ID, book)
	return book, nil
}

// GetBookByTitle looks a book up by its exact english or russian title.
func (s *Store) GetBookByTitle(title string) (*model.Book, error) {
	book, err := s.GetBook(&model.FindBook{TitleEN: &title})
	if err != nil {
		return nil, err
	}
	if book != nil {
		return book, nil
	}
	return s.GetBook(&model.FindBook{TitleRU: &title})
}

// ListBooks returns books in catalog insertion order. Downstream
// ranking relies on that order for deterministic tie-breaks.
func (s *Store) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.TitleEN; v != nil {
		where, args = append(where, "title_en = ?"), append(args, *v)
	}
	if v := find.TitleRU; v != nil {
		where, args = append(where, "title_ru = ?"), append(args, *v)
	}
	if v := find.AuthorsEN; v != nil {
		where, args = append(where, "authors_en = ?"), append(args, *v)
	}

	query := `
        SELECT
            id,
            title_en,
            title_ru,
            authors_en,
            authors_ru,
            year,
            description,
            genre,
            created_ts
        FROM book
    WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	log.Debug("SQL query and args",
		zap.String("query", query),
		zap.Any("args", args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query books", zap.Error(err))
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		var book model.Book
		var year, description, genre sql.NullString
		if err := rows.Scan(
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
			return nil, errors.Wrap(err, "failed to scan book")
		}
		book.Year = year.String
		book.Description = description.String
		book.Genre = genre.String
		list = append(list, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate books")
	}

	return list, nil
}

// AddBook inserts a book and returns it with its assigned ID.
// Idempotent on (title_en, authors_en): adding an existing book
// returns the stored row, never a duplicate.
func (s *Store) AddBook(book *model.Book) (*model.Book, error) {
	existing, err := s.GetBook(&model.FindBook{
		TitleEN:   &book.TitleEN,
		AuthorsEN: &book.AuthorsEN,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	stmt := `
		INSERT INTO book (
			title_en, title_ru, authors_en, authors_ru,
			year, description, genre
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts
	`
	if err := s.db.QueryRow(stmt,
		book.TitleEN,
		book.TitleRU,
		book.AuthorsEN,
		book.AuthorsRU,
		nullable(book.Year),
		nullable(book.Description),
		nullable(book.Genre),
	).Scan(&book.ID, &book.CreatedTs); err != nil {
		log.Error("Failed to add book", zap.Error(err))
		return nil, errors.Wrap(err, "failed to add book")
	}

	s.BookCache.Store(book.ID, book)
	return book, nil
}

// CatalogTitles returns every catalog title in insertion order, the
// english title first, for use by the title resolver. The returned
// ids slice is parallel to titles.
func (s *Store) CatalogTitles() (titles []string, ids []int64, err error) {
	books, err := s.ListBooks(&model.FindBook{})
	if err != nil {
		return nil, nil, err
	}
	for _, b := range books {
		titles = append(titles, b.TitleEN)
		ids = append(ids, b.ID)
		if b.TitleRU != "" && b.TitleRU != b.TitleEN {
			titles = append(titles, b.TitleRU)
			ids = append(ids, b.ID)
		}
	}
	return titles, ids, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
