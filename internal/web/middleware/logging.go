// Package middleware provides HTTP middleware for the book service.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/bookshelf/internal/logging"
	"github.com/felixge/httpsnoop"
)

// Logger writes one structured entry per request with method, path, status,
// bytes, duration_ms, ip, and user_agent. Entries carry chi's request_id.
// 4xx responses log at Warn and 5xx at Error.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		level := slog.LevelInfo
		switch {
		case m.Code >= 500:
			level = slog.LevelError
		case m.Code >= 400:
			level = slog.LevelWarn
		}

		logging.FromContext(r.Context()).Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration_ms", m.Duration.Milliseconds(),
			"ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}
