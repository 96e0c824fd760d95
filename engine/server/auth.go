// ABOUTME: X-ENGINE-KEY header authentication middleware.
// ABOUTME: Grounded on spec/server/auth.go's constant-time comparison and path-exemption pattern.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// AuthMiddleware validates the X-ENGINE-KEY header against the configured key on every
// route except /health. A mismatch returns 403 with {"detail": "..."}.
func AuthMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get("X-ENGINE-KEY")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or missing ENGINE_KEY"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
