package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/bookshelf/internal/core"
)

var (
	// ErrRateLimited is reported when a client exhausts its token bucket.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrMissingAPIKey is reported when X-API-Key is absent.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidAPIKey is reported when X-API-Key matches no configured key.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// writeError renders err the same way the web package does.
func writeError(w http.ResponseWriter, status int, err error) {
	msg := core.MapError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(errorBody{
		Error:   err.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}); encErr != nil {
		slog.Error("json encode error", "error", encErr)
	}
}
