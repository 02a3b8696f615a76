// Package web provides the HTTP API for the book catalog.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/bookshelf/internal/config"
	"github.com/JonMunkholm/bookshelf/internal/core"
	"github.com/JonMunkholm/bookshelf/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the book catalog.
type Server struct {
	repo    *core.Repository
	history *core.ImportHistory
	imports *core.ImportLimiter
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer wires the routes around an existing repository and import history.
func NewServer(repo *core.Repository, history *core.ImportHistory, cfg *config.Config) *Server {
	s := &Server{
		repo:    repo,
		history: history,
		imports: core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(s.cfg.Rate.RPS, s.cfg.Rate.Burst)
		s.router.Use(limiter.Middleware)
	}

	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/books", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security))

		r.Get("/", s.handleListBooks)
		r.Post("/", s.handleCreateBook)

		// Static segments win over {id} in chi's tree.
		r.Post("/import", s.handleImport)
		r.Get("/imports/{importID}", s.handleImportResult)

		r.Get("/{id}", s.handleGetBook)
		r.Put("/{id}", s.handleUpdateBook)
		r.Delete("/{id}", s.handleDeleteBook)
	})
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// WaitForImports blocks until in-flight imports finish or ctx is done.
func (s *Server) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// ImportStatus reports import slot usage.
func (s *Server) ImportStatus() core.ImportLimiterStatus {
	return s.imports.Status()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v with the given status. Encoding errors are only logged
// since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
