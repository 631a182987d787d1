package middleware

import (
	"net/http"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/ctxkeys"
)

// Config middleware adds the sanitized app configuration to the request context.
// Secrets like SecretKey and the mail API keys are excluded.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
