// ABOUTME: Panic recovery middleware
// ABOUTME: Turns a handler panic into a logged 500 JSON error instead of a dropped connection

package middleware

import (
	"log/slog"
	"net/http"
)

// Recover converts panics in next into a 500 response.
func Recover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Handler panic",
					"request_id", RequestID(r.Context()),
					"method", r.Method,
					"path", sanitizePath(r.URL.Path),
					"panic", rec,
				)
				writeJSONError(w, "internal-error", "", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}
