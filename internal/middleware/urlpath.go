package middleware

import (
	"net/http"
	"path"

	"github.com/duong1906ltv/website/internal/ctxkeys"
)

// WithURLPath records the cleaned request path, which the layout uses to
// highlight the active nav link
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithURLPath(r.Context(), path.Clean("/"+r.URL.Path))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
