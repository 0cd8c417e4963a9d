package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/llm"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

const recommendInstructionsTemplate = `Ты — книжный эксперт. Твоя задача — порекомендовать ровно %d книг, похожих на книгу, указанную пользователем.
Рекомендации должны быть основаны на схожести жанра, стиля и темы.

Для каждой рекомендованной книги укажи:
- Название (title)
- Автор (authors)
- Год издания (year)
- Краткое описание, до 100 слов (description)
- Жанр (genre)
- Почему она похожа на запрошенную книгу, 1-2 предложения (similarity)

Ответ должен быть в формате JSON:
{
    "original_book": {
        "title": "Название исходной книги",
        "authors": "Автор исходной книги"
    },
    "recommendations": [
        {
            "title": "Название книги",
            "authors": "Автор книги",
            "year": "Год издания",
            "description": "Краткое описание",
            "genre": "Жанр",
            "similarity": "Почему похожа на исходную книгу"
        }
    ]
}`

// CatalogIndex is a snapshot of catalog titles used to attach
// book IDs to generative results. Titles and IDs are parallel slices.
type CatalogIndex struct {
	Titles []string
	IDs    []int64
}

// Generative is the last-resort recommender: it asks the
// text-completion service for k similar books and parses the
// structured answer.
type Generative struct {
	provider       llm.Provider
	fuzzyThreshold int
}

func NewGenerative(provider llm.Provider, fuzzyThreshold int) *Generative {
	return &Generative{
		provider:       provider,
		fuzzyThreshold: fuzzyThreshold,
	}
}

type recommendPayload struct {
	OriginalBook struct {
		Title   string `json:"title"`
		Authors string `json:"authors"`
	} `json:"original_book"`
	Recommendations []recommendRecord `json:"recommendations"`
}

type recommendRecord struct {
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Year        string `json:"year"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Similarity  string `json:"similarity"`
}

// Recommend asks for exactly k similar books. A malformed payload is
// ErrGenerationFormat and is not retried. A well-formed empty list is
// an empty slice with a nil error, callers must treat that distinctly
// from failure. Each record is cross-checked against the catalog to
// optionally attach a BookID; a miss leaves the field unset.
func (g *Generative) Recommend(ctx context.Context, query string, k int, catalog *CatalogIndex) ([]model.Recommendation, error) {
	instructions := fmt.Sprintf(recommendInstructionsTemplate, k)
	input := fmt.Sprintf("Порекомендуй книги, похожие на '%s'", query)

	log.Debug("Sending recommendation query to llm", zap.String("query", query))

	raw, err := g.provider.Complete(ctx, instructions, input)
	if err != nil {
		return nil, err
	}

	recs, err := parseRecommendations(raw)
	if err != nil {
		return nil, err
	}

	if catalog != nil {
		for i := range recs {
			if res, ok := Resolve(recs[i].Title, catalog.Titles, g.fuzzyThreshold); ok {
				id := catalog.IDs[res.Index]
				recs[i].BookID = &id
			}
		}
	}

	if len(recs) > k {
		recs = recs[:k]
	}
	return recs, nil
}

func parseRecommendations(raw string) ([]model.Recommendation, error) {
	var payload recommendPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(llm.ErrGenerationFormat, err.Error())
	}

	recs := make([]model.Recommendation, 0, len(payload.Recommendations))
	for _, rec := range payload.Recommendations {
		if rec.Title == "" || rec.Authors == "" {
			return nil, errors.Wrap(llm.ErrGenerationFormat, "recommendation record missing title or authors")
		}
		recs = append(recs, model.Recommendation{
			Title:       rec.Title,
			Authors:     rec.Authors,
			Year:        rec.Year,
			Description: rec.Description,
			Genre:       rec.Genre,
			Source:      model.SourceGenerative,
			Reason:      rec.Similarity,
		})
	}
	return recs, nil
}
