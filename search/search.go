// Package search identifies books from a free-text query (plot
// description, author, title or any mix) using the text-completion
// service as the identification oracle.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/llm"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

const instructionsTemplate = `Ты — книжный эксперт. Твоя задача — найти книгу по запросу пользователя.
Запрос может содержать описание сюжета, автора, название или их комбинацию.
Если есть несколько возможных вариантов, предложи до %d наиболее подходящих книг.

Для каждой книги укажи:
- Название на русском языке (title_ru)
- Название на английском языке (title_en)
- Авторы на русском языке, через запятую и пробел (authors_ru)
- Авторы на английском языке, через запятую и пробел (authors_en)
- Год издания (year)
- Краткое описание на русском языке (description)
- Жанр на русском языке (genre)

Ответ должен быть в формате JSON:
{
    "books": [
        {
            "title_ru": "Название книги на русском",
            "title_en": "Название книги на английском",
            "authors_ru": "Авторы на русском",
            "authors_en": "Авторы на английском",
            "year": "Год издания",
            "description": "Краткое описание на русском",
            "genre": "Жанр на русском"
        }
    ]
}`

type Service struct {
	provider      llm.Provider
	maxCandidates int
}

func NewService(provider llm.Provider, maxCandidates int) *Service {
	return &Service{
		provider:      provider,
		maxCandidates: maxCandidates,
	}
}

type bookPayload struct {
	Books []bookRecord `json:"books"`
}

type bookRecord struct {
	TitleRU     string `json:"title_ru"`
	TitleEN     string `json:"title_en"`
	AuthorsRU   string `json:"authors_ru"`
	AuthorsEN   string `json:"authors_en"`
	Year        string `json:"year"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
}

// FindBooks returns up to maxCandidates identified books, excluded
// titles filtered out. An empty well-formed answer is a legitimate
// "nothing found", not an error. The returned books are not persisted,
// insertion happens only after the user selects one.
func (s *Service) FindBooks(ctx context.Context, query string, exclude map[string]struct{}) ([]*model.Book, error) {
	instructions := fmt.Sprintf(instructionsTemplate, s.maxCandidates)
	input := query
	if len(exclude) > 0 {
		titles := make([]string, 0, len(exclude))
		for t := range exclude {
			titles = append(titles, t)
		}
		input = fmt.Sprintf("%s\n\nНе предлагай следующие книги: %s", query, strings.Join(titles, "; "))
	}

	log.Debug("Sending search query to llm", zap.String("query", query))

	raw, err := s.provider.Complete(ctx, instructions, input)
	if err != nil {
		return nil, err
	}

	books, err := ParseBooks(raw)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.Book, 0, len(books))
	for _, b := range books {
		if _, ok := exclude[normalizeTitle(b.TitleEN)]; ok {
			continue
		}
		if _, ok := exclude[normalizeTitle(b.TitleRU)]; ok {
			continue
		}
		filtered = append(filtered, b)
		if len(filtered) == s.maxCandidates {
			break
		}
	}
	return filtered, nil
}

// ParseBooks decodes and validates the oracle's payload. Records
// missing a title or authors make the whole payload malformed.
func ParseBooks(raw string) ([]*model.Book, error) {
	var payload bookPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(llm.ErrGenerationFormat, err.Error())
	}

	books := make([]*model.Book, 0, len(payload.Books))
	for _, rec := range payload.Books {
		if rec.TitleEN == "" && rec.TitleRU == "" {
			return nil, errors.Wrap(llm.ErrGenerationFormat, "book record has no title")
		}
		if rec.AuthorsEN == "" && rec.AuthorsRU == "" {
			return nil, errors.Wrap(llm.ErrGenerationFormat, "book record has no authors")
		}
		book := &model.Book{
			TitleEN:     rec.TitleEN,
			TitleRU:     rec.TitleRU,
			AuthorsEN:   rec.AuthorsEN,
			AuthorsRU:   rec.AuthorsRU,
			Year:        rec.Year,
			Description: rec.Description,
			Genre:       rec.Genre,
		}
		if book.TitleEN == "" {
			book.TitleEN = book.TitleRU
		}
		if book.TitleRU == "" {
			book.TitleRU = book.TitleEN
		}
		if book.AuthorsEN == "" {
			book.AuthorsEN = book.AuthorsRU
		}
		if book.AuthorsRU == "" {
			book.AuthorsRU = book.AuthorsEN
		}
		books = append(books, book)
	}
	return books, nil
}

// NormalizeTitle is the exclusion-set key: titles compare
// case-insensitively with surrounding space trimmed.
func NormalizeTitle(title string) string {
	return normalizeTitle(title)
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
