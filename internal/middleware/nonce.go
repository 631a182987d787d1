package middleware

import (
	"crypto/rand"
	"net/http"

	"github.com/a-h/templ"
)

// Nonce puts a fresh CSP nonce in the request context. The layout and
// SecurityHeaders both read it back with templ.GetNonce.
func Nonce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := templ.WithNonce(r.Context(), rand.Text())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
