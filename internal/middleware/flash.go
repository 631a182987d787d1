package middleware

import (
	"net/http"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
)

// Flash loads pending flash messages into the context. They stay in the
// cookie until a page renders them, so they survive intermediate redirects.
func Flash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msgs := flash.Read(r)
		if len(msgs) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx := ctxkeys.WithFlashes(r.Context(), msgs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
