package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
)

type body struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func OK(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, body{Data: data})
}

func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, http.StatusBadRequest, body{Error: err.Error()})
}

func Unauthorized(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, body{Error: "access unauthorized"})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, body{Error: "resource not found"})
}

func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	// Internal details stay in the log, not in the payload.
	log.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, body{Error: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, payload body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}
