package store

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

// ImportBooksCSV loads catalog rows from a headered CSV stream.
// Column names follow the goodbooks-10k export the original data set
// came from; bilingual columns are used when present, otherwise the
// single-language value fills both. Returns how many rows were added.
func (s *Store) ImportBooksCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read csv header")
	}
	col := indexColumns(header)

	titleEN := col.oneOf("title_en", "original_title")
	titleRU := col.oneOf("title_ru", "title")
	authorsEN := col.oneOf("authors_en", "authors")
	authorsRU := col.oneOf("authors_ru", "authors")
	year := col.oneOf("year", "original_publication_year")
	if titleEN < 0 || authorsEN < 0 {
		return 0, errors.New("csv is missing title/authors columns")
	}

	added := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, errors.Wrap(err, "failed to read csv row")
		}

		book := &model.Book{
			TitleEN:     field(record, titleEN),
			TitleRU:     field(record, titleRU),
			AuthorsEN:   field(record, authorsEN),
			AuthorsRU:   field(record, authorsRU),
			Year:        field(record, year),
			Description: field(record, col.oneOf("description")),
			Genre:       field(record, col.oneOf("genre")),
		}
		if book.TitleEN == "" || book.AuthorsEN == "" {
			continue
		}
		if book.TitleRU == "" {
			book.TitleRU = book.TitleEN
		}
		if book.AuthorsRU == "" {
			book.AuthorsRU = book.AuthorsEN
		}

		if _, err := s.AddBook(book); err != nil {
			log.Warn("Skipping book row", zap.String("title", book.TitleEN), zap.Error(err))
			continue
		}
		added++
	}
	return added, nil
}

// ImportRatingsCSV loads rating rows (book_id,user_id,rating).
// Fractional ratings are rounded and clamped to [1,5], rows that
// reference unknown books are skipped.
func (s *Store) ImportRatingsCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read csv header")
	}
	col := indexColumns(header)
	bookCol := col.oneOf("book_id")
	userCol := col.oneOf("user_id")
	ratingCol := col.oneOf("rating")
	if bookCol < 0 || userCol < 0 || ratingCol < 0 {
		return 0, errors.New("csv is missing book_id/user_id/rating columns")
	}

	added := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, errors.Wrap(err, "failed to read csv row")
		}

		bookID, err := strconv.ParseInt(field(record, bookCol), 10, 64)
		if err != nil {
			continue
		}
		userID, err := strconv.ParseInt(field(record, userCol), 10, 64)
		if err != nil {
			continue
		}
		raw, err := strconv.ParseFloat(field(record, ratingCol), 64)
		if err != nil {
			continue
		}
		score := clampRating(int(math.Round(raw)))

		book, err := s.GetBook(&model.FindBook{ID: &bookID})
		if err != nil {
			return added, err
		}
		if book == nil {
			continue
		}

		if _, err := s.UpsertRating(bookID, userID, score); err != nil {
			log.Warn("Skipping rating row",
				zap.Int64("book_id", bookID),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		added++
	}
	return added, nil
}

func clampRating(score int) int {
	if score < model.RatingMin {
		return model.RatingMin
	}
	if score > model.RatingMax {
		return model.RatingMax
	}
	return score
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	col := make(columnIndex, len(header))
	for i, name := range header {
		col[name] = i
	}
	return col
}

// oneOf returns the index of the first present column name, -1 if none.
func (c columnIndex) oneOf(names ...string) int {
	for _, name := range names {
		if i, ok := c[name]; ok {
			return i
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
