package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	v1 "github.com/niktanya/telegram-book-bot/api/v1"
	"github.com/niktanya/telegram-book-bot/config"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/store"
)

// Server is the admin HTTP surface: health, catalog inspection and
// administrative re-import. The conversational flow never goes
// through it.
type Server struct {
	httpServer *http.Server
	store      *store.Store
}

func NewServer(ctx context.Context, st *store.Store, sessions v1.SessionCounter) *Server {
	router := mux.NewRouter()
	router.Use(middleware)

	s := &Server{store: st}
	router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	v1.Server(router, st, sessions, config.Opts.AdminToken)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info("Admin API listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
