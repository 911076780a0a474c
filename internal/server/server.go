// ABOUTME: HTTP server wiring for the measurement API on port 5080.
// ABOUTME: chi router, Prometheus endpoint and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/antarcticrainforest/babymeasure/internal/cache"
	"github.com/antarcticrainforest/babymeasure/internal/chatbot"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

// Server exposes the record store over HTTP.
type Server struct {
	router  chi.Router
	store   storage.Store
	cache   *cache.Cache
	bot     *chatbot.Responder
	log     *slog.Logger
	subject string
}

// New constructs the HTTP server. The cache may be nil, reads then
// always hit the database.
func New(store storage.Store, c *cache.Cache, log *slog.Logger, defaultSubject string) *Server {
	s := &Server{
		store:   store,
		cache:   c,
		bot:     chatbot.NewResponder(store, defaultSubject),
		log:     log,
		subject: defaultSubject,
	}

	router := chi.NewRouter()
	router.Use(instrument(log))

	router.Route("/api", func(r chi.Router) {
		r.Post("/measurements", s.handleAddMeasurement)
		r.Get("/measurements", s.handleListMeasurements)
		r.Get("/measurements/{id}", s.handleGetMeasurement)
		r.Patch("/measurements/{id}", s.handleUpdateMeasurement)
		r.Delete("/measurements/{id}", s.handleDeleteMeasurement)

		r.Get("/subjects/{subject}/entries", s.handleEntries)
		r.Get("/subjects/{subject}/latest", s.handleLatest)
		r.Get("/subjects/{subject}/daily", s.handleDailyTotals)

		r.Post("/bot", s.handleBot)
	})
	router.Get("/healthz", s.handleHealthz)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = router
	return s
}

// Router returns the configured router for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// ServeHTTP lets Server satisfy http.Handler directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server.listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server.shutdown")
	return srv.Shutdown(shutdownCtx)
}
