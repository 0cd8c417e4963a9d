package v1

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/niktanya/telegram-book-bot/http/response"
	"github.com/niktanya/telegram-book-bot/middleware"
	"github.com/niktanya/telegram-book-bot/store"
)

// SessionCounter reports how many dialog sessions are live.
type SessionCounter interface {
	Len() int
}

type Handler struct {
	store    *store.Store
	router   *mux.Router
	sessions SessionCounter
}

// Server registers the admin API under /api/v1. Every route requires
// the admin bearer token.
func Server(router *mux.Router, st *store.Store, sessions SessionCounter, adminToken string) {
	handler := &Handler{
		store:    st,
		router:   router,
		sessions: sessions,
	}

	sr := router.PathPrefix("/api/v1").Subrouter()
	m := middleware.NewMiddleware(adminToken)
	sr.Use(m.HandleCORS)
	sr.Use(m.LoggingRequest)
	sr.Use(m.AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/import", handler.importBooks).Methods(http.MethodPost)
	sr.HandleFunc("/ratings/import", handler.importRatings).Methods(http.MethodPost)
	sr.HandleFunc("/users/{userID}/ratings", handler.listUserRatings).Methods(http.MethodGet)
	sr.HandleFunc("/stats", handler.stats).Methods(http.MethodGet)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.CountBooks()
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	ratings, err := h.store.CountRatings()
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Len()
	}
	response.OK(w, r, map[string]int{
		"books":         books,
		"ratings":       ratings,
		"live_sessions": sessions,
	})
}
