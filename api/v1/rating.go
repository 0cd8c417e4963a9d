package v1

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/http/request"
	"github.com/niktanya/telegram-book-bot/http/response"
	"github.com/niktanya/telegram-book-bot/log"
)

func (h *Handler) listUserRatings(w http.ResponseWriter, r *http.Request) {
	userID := request.RouteInt64Param(r, "userID")
	if userID == 0 {
		response.BadRequest(w, r, errors.New("invalid user id"))
		return
	}

	ratings, err := h.store.ListUserRatings(userID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, ratings)
}

// importRatings loads rating rows from a CSV request body. Rows
// referencing unknown books are skipped, duplicates upsert.
func (h *Handler) importRatings(w http.ResponseWriter, r *http.Request) {
	importID := uuid.NewString()
	log.Info("Starting ratings import", zap.String("import_id", importID))

	added, err := h.store.ImportRatingsCSV(r.Body)
	if err != nil {
		log.Error("Ratings import failed",
			zap.String("import_id", importID),
			zap.Int("added", added),
			zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	log.Info("Ratings import finished",
		zap.String("import_id", importID),
		zap.Int("added", added))
	response.OK(w, r, map[string]any{"import_id": importID, "added": added})
}
