// Package recommend contains the hybrid recommendation engine:
// catalog title resolution, item-item collaborative filtering over a
// dense rating matrix and the generative fallback, sequenced by the
// Orchestrator's strict fallback chain.
package recommend

import (
	"context"

	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
	"github.com/niktanya/telegram-book-bot/store"
)

// Orchestrator decides between the collaborative and generative paths.
// Collaborative results, when present, always win; the generative
// recommender is invoked at most once per call.
type Orchestrator struct {
	store          *store.Store
	generative     *Generative
	fuzzyThreshold int
}

func NewOrchestrator(st *store.Store, generative *Generative, fuzzyThreshold int) *Orchestrator {
	return &Orchestrator{
		store:          st,
		generative:     generative,
		fuzzyThreshold: fuzzyThreshold,
	}
}

// Recommend returns up to k recommendations for a book query.
// The collaborative path is attempted only when both the catalog and
// the rating store are non-empty; a resolution miss, an empty filtered
// result or any unexpected error along the way falls back to the
// generative recommender.
func (o *Orchestrator) Recommend(ctx context.Context, query string, k int, threshold float64) ([]model.Recommendation, error) {
	catalog, err := o.catalogIndex()
	if err != nil {
		log.Error("Failed to snapshot catalog, using generative path", zap.Error(err))
		return o.generative.Recommend(ctx, query, k, nil)
	}

	if recs, ok := o.collaborative(query, k, threshold, catalog); ok {
		return recs, nil
	}

	return o.generative.Recommend(ctx, query, k, catalog)
}

// collaborative runs the resolver + collaborative filter path.
// ok is false whenever the caller must fall back.
func (o *Orchestrator) collaborative(query string, k int, threshold float64, catalog *CatalogIndex) ([]model.Recommendation, bool) {
	if len(catalog.IDs) == 0 {
		return nil, false
	}
	ratingCount, err := o.store.CountRatings()
	if err != nil {
		log.Error("Failed to count ratings", zap.Error(err))
		return nil, false
	}
	if ratingCount == 0 {
		return nil, false
	}

	res, ok := Resolve(query, catalog.Titles, o.fuzzyThreshold)
	if !ok {
		log.Debug("Query did not resolve in catalog", zap.String("query", query))
		return nil, false
	}
	bookID := catalog.IDs[res.Index]

	ratings, err := o.store.ListRatings()
	if err != nil {
		log.Error("Failed to list ratings", zap.Error(err))
		return nil, false
	}

	matrix := BuildMatrix(ratings)
	scored := Collaborative(bookID, matrix, k, threshold)
	if len(scored) == 0 {
		log.Debug("Collaborative filter produced no results above threshold",
			zap.Int64("book_id", bookID),
			zap.Float64("threshold", threshold))
		return nil, false
	}

	recs := make([]model.Recommendation, 0, len(scored))
	for _, sb := range scored {
		id := sb.BookID
		book, err := o.store.GetBook(&model.FindBook{ID: &id})
		if err != nil {
			log.Error("Failed to load recommended book", zap.Int64("book_id", id), zap.Error(err))
			return nil, false
		}
		if book == nil {
			// Rating rows can outlive a re-imported catalog, skip.
			continue
		}
		recs = append(recs, model.Recommendation{
			Title:       book.TitleRU,
			Authors:     book.AuthorsRU,
			Year:        book.Year,
			Description: book.Description,
			Genre:       book.Genre,
			Source:      model.SourceCollaborative,
			Score:       sb.Score,
			BookID:      &id,
		})
	}
	if len(recs) == 0 {
		return nil, false
	}
	return recs, true
}

func (o *Orchestrator) catalogIndex() (*CatalogIndex, error) {
	titles, ids, err := o.store.CatalogTitles()
	if err != nil {
		return nil, err
	}
	return &CatalogIndex{Titles: titles, IDs: ids}, nil
}
