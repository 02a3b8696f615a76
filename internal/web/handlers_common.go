package web

import (
	"net/http"

	"github.com/JonMunkholm/bookshelf/internal/core"
)

// endpoint describes one route in the index document.
type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []endpoint{
	{http.MethodGet, "/books", "List all books"},
	{http.MethodGet, "/books/{id}", "Get a book by id"},
	{http.MethodPost, "/books", "Create a book"},
	{http.MethodPut, "/books/{id}", "Replace a book"},
	{http.MethodDelete, "/books/{id}", "Delete a book"},
	{http.MethodPost, "/books/import", "Import books from a CSV upload (multipart field \"file\")"},
	{http.MethodGet, "/books/imports/{importID}", "Get the result of a recent import"},
	{http.MethodGet, "/health", "Service health"},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "bookshelf",
		"endpoints": endpoints,
	})
}

type healthResponse struct {
	Status  string                   `json:"status"`
	Books   int                      `json:"books"`
	Imports core.ImportLimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Books:   s.repo.Len(),
		Imports: s.imports.Status(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errNotFound, http.StatusNotFound)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errNoMethod, http.StatusMethodNotAllowed)
}
