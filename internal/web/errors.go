package web

// errors.go renders failures as JSON.
//
// Every error is logged with the request ID and mapped through
// core.MapError so clients get a message, an action, and a support code.
// Validation failures are the exception: they are data, returned as
// {"errors": [...]} so clients can show each field's message.

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/bookshelf/internal/core"
	"github.com/JonMunkholm/bookshelf/internal/logging"
)

// Capitalized strings below are wire messages that clients match on; they
// are sent verbatim in the "error" field.
var (
	errInvalidJSON = errors.New("invalid JSON body")
	errNoFile      = errors.New("No CSV file uploaded")
	errNotFound    = errors.New("Not Found")
	errNoMethod    = errors.New("Method Not Allowed")
)

// ErrorResponse is the JSON body of every non-validation error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ValidationResponse is the body of a 400 caused by invalid book fields.
type ValidationResponse struct {
	Errors []core.ValidationError `json:"errors"`
}

// respondError logs err with request context and writes its mapped message.
// Only errors with a known code are echoed to the client; anything else is
// replaced by its generic user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	ue := core.NewUserError(err)
	msg := ue.User

	public := ue.Error()
	if core.IsUserFacing(err) {
		public = err.Error()
	}

	log := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)
	if status >= http.StatusInternalServerError {
		log.Error("request error")
	} else {
		log.Warn("request rejected")
	}

	writeJSON(w, status, ErrorResponse{
		Error:   public,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondBookNotFound writes a 404 whose error field names the missing id.
func (s *Server) respondBookNotFound(w http.ResponseWriter, r *http.Request, id string) {
	msg := core.MapError(core.ErrBookNotFound)

	logging.FromContext(r.Context()).Info("book not found", "id", id, "method", r.Method)

	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   fmt.Sprintf("Book with id %s not found", id),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondValidation writes field errors as a 400.
func (s *Server) respondValidation(w http.ResponseWriter, r *http.Request, errs core.ValidationErrors) {
	logging.FromContext(r.Context()).Info("validation failed",
		"path", r.URL.Path,
		"errors", len(errs),
	)
	writeJSON(w, http.StatusBadRequest, ValidationResponse{Errors: errs})
}
