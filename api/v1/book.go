package v1

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/http/request"
	"github.com/niktanya/telegram-book-bot/http/response"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{}
	if limit := request.QueryInt64Param(r, "limit", 0); limit > 0 {
		l := int(limit)
		find.Limit = &l
	}
	books, err := h.store.ListBooks(find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteInt64Param(r, "id")
	if id == 0 {
		response.BadRequest(w, r, errors.New("invalid book id"))
		return
	}

	book, err := h.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, book)
}

// importBooks re-imports the catalog from a CSV request body.
// Existing (title, authors) pairs are reused, so a re-import never
// produces duplicates.
func (h *Handler) importBooks(w http.ResponseWriter, r *http.Request) {
	importID := uuid.NewString()
	log.Info("Starting catalog import", zap.String("import_id", importID))

	added, err := h.store.ImportBooksCSV(r.Body)
	if err != nil {
		log.Error("Catalog import failed",
			zap.String("import_id", importID),
			zap.Int("added", added),
			zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	log.Info("Catalog import finished",
		zap.String("import_id", importID),
		zap.Int("added", added))
	response.OK(w, r, map[string]any{"import_id": importID, "added": added})
}
