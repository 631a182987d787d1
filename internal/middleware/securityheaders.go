package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/ctxkeys"
)

// SecurityHeaders sets the CSP (with the request nonce) and the usual hardening headers.
// Needs Config and Nonce to run first.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := ctxkeys.Config(r.Context())

		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(templ.GetNonce(r.Context()), cfg))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(nonce string, cfg *config.Config) string {
	script := "'self'"
	if nonce != "" {
		script += fmt.Sprintf(" 'nonce-%s'", nonce)
	}

	img := "'self' data:"
	if host := imageHost(cfg); host != "" {
		img += " " + host
	}

	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + script,
		"style-src " + script,
		"img-src " + img,
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ")
}

// imageHost is the origin post images are served from when they live in S3
func imageHost(cfg *config.Config) string {
	if cfg == nil || cfg.StorageDriver != config.StorageDriverS3 {
		return ""
	}
	if cfg.S3Endpoint != "" {
		return strings.TrimSuffix(cfg.S3Endpoint, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}
