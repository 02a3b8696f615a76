package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/bookshelf/internal/config"
	"github.com/JonMunkholm/bookshelf/internal/logging"
)

// APIKeyHeader carries the client's key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth checks X-API-Key against cfg.APIKeys when cfg.RequireAPIKey is set.
// A missing key is 401, an unknown key 403.
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	keys := make([][]byte, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		keys[i] = []byte(k)
	}

	return func(next http.Handler) http.Handler {
		if !cfg.RequireAPIKey {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				logging.FromContext(r.Context()).Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeError(w, http.StatusUnauthorized, ErrMissingAPIKey)
				return
			}

			if !validKey([]byte(apiKey), keys) {
				logging.FromContext(r.Context()).Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeError(w, http.StatusForbidden, ErrInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validKey compares against every key so timing does not reveal which matched.
func validKey(key []byte, keys [][]byte) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(key, k)
	}
	return match == 1
}
