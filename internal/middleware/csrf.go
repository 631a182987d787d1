package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/duong1906ltv/website/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32
	csrfCookieAge  = 7 * 24 * 60 * 60

	maxMultipartMemory = 8 << 20
)

var csrfTokenLen = base64.RawURLEncoding.EncodedLen(csrfTokenBytes)

// CSRFProtection is a double-submit check: every request gets a token cookie
// (exposed to pages through ctxkeys.CSRFToken) and unsafe methods must echo it
// in the X-CSRF-Token header or the csrf_token form field.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := csrfCookieToken(w, r)
		r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), token))

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		submitted, err := submittedCSRFToken(r)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
			return
		}

		if submitted == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
			slog.Warn("csrf validation failed", "path", r.URL.Path, "method", r.Method, "ip", getClientIP(r))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// submittedCSRFToken reads the header first and falls back to the form.
// Parsing the form here means an oversized upload surfaces as a
// MaxBytesError instead of a missing token.
func submittedCSRFToken(r *http.Request) (string, error) {
	if v := r.Header.Get(csrfHeader); v != "" {
		return v, nil
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	return r.PostFormValue(csrfFormField), err
}

// csrfCookieToken returns the token from the cookie, issuing a new one when
// it is missing or malformed
func csrfCookieToken(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(csrfCookieName)
	if err == nil && len(c.Value) == csrfTokenLen {
		return c.Value
	}

	b := make([]byte, csrfTokenBytes)
	_, _ = rand.Read(b)
	token := base64.RawURLEncoding.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   csrfCookieAge,
	})
	return token
}
