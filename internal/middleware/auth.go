package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/service"
)

// AuthMiddleware checks the session cookie and adds the user to context if valid
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				// Expired, tampered or the user is gone: drop the cookie and continue anonymous
				if service.KindOf(err) == service.KindInternal {
					slog.Warn("session lookup failed", "error", err)
				}
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			flash.Info(w, isProduction(r), "Please log in to access this page.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest ensures the user is not authenticated
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Paths an unconfirmed user may still reach
var unconfirmedAllowed = []string{
	"/login",
	"/sign-up",
	"/logout",
	"/unconfirmed",
	"/confirm",
	"/change_password",
	"/reset",
	"/metrics",
}

var unconfirmedAllowedPrefixes = []string{
	"/confirm/",
	"/reset/",
	"/assets/",
	"/uploads/",
}

// RequireConfirmed runs on every request: it records that a signed in user was
// seen and keeps unconfirmed users on the account lifecycle pages
func RequireConfirmed(userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := ctxkeys.User(r.Context())
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			err := userService.Ping(r.Context(), user)
			if err != nil {
				slog.Warn("failed to record last seen", "error", err, "user_id", user.ID)
			}

			if !user.Confirmed && !confirmationExempt(r.URL.Path) {
				http.Redirect(w, r, "/unconfirmed", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func confirmationExempt(path string) bool {
	for _, p := range unconfirmedAllowed {
		if path == p {
			return true
		}
	}
	for _, prefix := range unconfirmedAllowedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isProduction(r *http.Request) bool {
	cfg := ctxkeys.Config(r.Context())
	return cfg != nil && cfg.IsProduction()
}
