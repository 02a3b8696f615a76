package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/bookshelf/internal/core"
	"github.com/JonMunkholm/bookshelf/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

// ImportIDHeader carries the id under which an import result is retained.
const ImportIDHeader = "X-Import-Id"

// handleImport runs a CSV upload through the repository's import pipeline.
// The body is the bare ImportResult: 200 when every row was accepted, 400
// otherwise. Rows accepted before a failure stay inserted.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := s.imports.Acquire(r.Context()); err != nil {
		if errors.Is(err, core.ErrImportBusy) {
			w.Header().Set("Retry-After", strconv.Itoa(int(s.cfg.Import.MaxWaitTime.Seconds())+1))
		}
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer s.imports.Release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	file, header, err := r.FormFile(s.cfg.Import.FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	log := logging.WithFields(r.Context(), "file", header.Filename, "size", header.Size)

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusBadRequest)
		return
	}

	var res core.ImportResult
	if mt, ok := textContent(data); ok {
		res = s.repo.ImportReader(bytes.NewReader(data))
	} else {
		res = core.ImportResult{
			Errors: []core.ValidationError{{
				Field:   core.FieldFile,
				Message: fmt.Sprintf("Uploaded file is not a text file (detected %s)", mt),
			}},
		}
	}

	rec := s.history.Record(header.Filename, started, res)
	w.Header().Set(ImportIDHeader, rec.ID)

	log.Info("import finished",
		"import_id", rec.ID,
		"success", res.Success,
		"books_added", res.BooksAdded,
		"errors", len(res.Errors),
		"duration_ms", rec.DurationMs,
	)

	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "importID")

	rec, err := s.history.Lookup(id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// textContent sniffs data and reports whether it is some kind of text.
// Empty uploads count as text so the pipeline can report them itself.
func textContent(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", true
	}

	detected := mimetype.Detect(data)
	for mt := detected; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return detected.String(), true
		}
	}
	return detected.String(), false
}
