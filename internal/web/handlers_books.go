package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/bookshelf/internal/core"
	"github.com/JonMunkholm/bookshelf/internal/logging"
	"github.com/go-chi/chi/v5"
)

// maxBookBodySize caps single-book JSON bodies.
const maxBookBodySize = 1 << 20

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.All())
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	book, ok := s.repo.Get(id)
	if !ok {
		s.respondBookNotFound(w, r, id)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	in, err := decodeBookInput(w, r)
	if err != nil {
		s.respondError(w, r, err, decodeStatus(err))
		return
	}

	book, err := s.repo.Create(in)
	if err != nil {
		s.respondWriteError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("book created", "id", book.ID)
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := decodeBookInput(w, r)
	if err != nil {
		s.respondError(w, r, err, decodeStatus(err))
		return
	}

	book, found, err := s.repo.Update(id, in)
	if err != nil {
		s.respondWriteError(w, r, err)
		return
	}
	if !found {
		s.respondBookNotFound(w, r, id)
		return
	}

	logging.FromContext(r.Context()).Info("book updated", "id", id)
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !s.repo.Delete(id) {
		s.respondBookNotFound(w, r, id)
		return
	}

	logging.FromContext(r.Context()).Info("book deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// respondWriteError handles an error from Create or Update.
func (s *Server) respondWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		s.respondValidation(w, r, verrs)
		return
	}
	s.respondError(w, r, err, http.StatusInternalServerError)
}

// bookPayload defers typing so that wrong-typed fields become validation
// errors instead of decode failures.
type bookPayload struct {
	Title         json.RawMessage `json:"title"`
	Author        json.RawMessage `json:"author"`
	PublishedYear json.RawMessage `json:"publishedYear"`
}

// decodeBookInput reads a book from the JSON body. Only a body that is not
// a JSON object is an error; title and author that are not strings decode
// as "", and a publishedYear that is not an integer (or a string holding
// one) decodes as nil.
func decodeBookInput(w http.ResponseWriter, r *http.Request) (core.BookInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBookBodySize)

	var p bookPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.BookInput{}, err
		}
		return core.BookInput{}, errInvalidJSON
	}

	return core.BookInput{
		Title:         jsonString(p.Title),
		Author:        jsonString(p.Author),
		PublishedYear: jsonYear(p.PublishedYear),
	}, nil
}

// decodeStatus is 413 for an oversized body and 400 otherwise.
func decodeStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func jsonYear(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		y, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil
		}
		return &y
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	y := int(f)
	return &y
}
