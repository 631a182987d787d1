package routes

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/duong1906ltv/website/assets"
	"github.com/duong1906ltv/website/internal/app"
	"github.com/duong1906ltv/website/internal/handler"
	"github.com/duong1906ltv/website/internal/metrics"
	"github.com/duong1906ltv/website/internal/middleware"
	"github.com/duong1906ltv/website/internal/storage"
)

// maxRequestBody leaves room for a 5MB image plus the other form fields
const maxRequestBody = 6 << 20

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	post := handler.NewPostHandler(app.PostService, app.UserService)
	comment := handler.NewCommentHandler(app.PostService)
	like := handler.NewLikeHandler(app.PostService)
	profile := handler.NewProfileHandler(app.UserService, app.PostService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// Uploaded images (local storage only; S3 serves its own)
	local, ok := app.Storage.(*storage.LocalStorage)
	if ok {
		mux.Handle("GET "+storage.LocalURLPrefix, http.StripPrefix(storage.LocalURLPrefix, noDirListing(http.FileServer(http.Dir(local.Root())))))
	}

	mux.Handle("GET /metrics", metrics.Handler())

	// Home
	mux.HandleFunc("GET /{$}", post.Home)
	mux.HandleFunc("GET /home", post.Home)

	// Profiles
	mux.HandleFunc("GET /user/{username}", profile.Show)

	// Auth - account lifecycle (form posts are rate limited)
	rateLimiter := middleware.RateLimit(app.AuthLimiter)

	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /sign-up", middleware.RequireGuest(auth.SignUpPage))
	mux.HandleFunc("POST /sign-up", rateLimiter(middleware.RequireGuest(auth.SignUp)))
	mux.HandleFunc("GET /reset", auth.ResetRequestPage)
	mux.HandleFunc("POST /reset", rateLimiter(auth.ResetRequest))
	mux.HandleFunc("GET /reset/{token}", auth.ResetPasswordPage)
	mux.HandleFunc("POST /reset/{token}", rateLimiter(auth.ResetPassword))
	mux.HandleFunc("GET /unconfirmed", auth.Unconfirmed)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /logout", middleware.RequireAuth(auth.Logout))
	mux.HandleFunc("GET /confirm", middleware.RequireAuth(auth.ResendConfirmation))
	mux.HandleFunc("GET /confirm/{token}", middleware.RequireAuth(auth.Confirm))
	mux.HandleFunc("GET /change_password", middleware.RequireAuth(auth.ChangePasswordPage))
	mux.HandleFunc("POST /change_password", middleware.RequireAuth(auth.ChangePassword))

	// Posts
	mux.HandleFunc("GET /create-post", middleware.RequireAuth(post.CreatePage))
	mux.HandleFunc("POST /create-post", middleware.RequireAuth(post.Create))
	mux.HandleFunc("GET /delete-post/{id}", middleware.RequireAuth(post.Delete))
	mux.HandleFunc("POST /delete-post/{id}", middleware.RequireAuth(post.Delete))
	mux.HandleFunc("GET /posts/{key}", middleware.RequireAuth(post.Show))

	// Comments & likes
	mux.HandleFunc("POST /create-comment/{post_id}", middleware.RequireAuth(comment.Create))
	mux.HandleFunc("GET /delete-comment/{comment_id}", middleware.RequireAuth(comment.Delete))
	mux.HandleFunc("POST /delete-comment/{comment_id}", middleware.RequireAuth(comment.Delete))
	mux.HandleFunc("POST /like-post/{post_id}", middleware.RequireAuth(like.Toggle))

	// Profile editing
	mux.HandleFunc("GET /edit-profile", middleware.RequireAuth(profile.EditPage))
	mux.HandleFunc("POST /edit-profile", middleware.RequireAuth(profile.Edit))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.Nonce,           // Per-request CSP nonce, read by SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.MaxBodySize(maxRequestBody),
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.AuthMiddleware(app.AuthService),
		middleware.RequireConfirmed(app.UserService), // Pings last_seen, parks unconfirmed users on /unconfirmed
		middleware.Flash,
		middleware.WithURLPath,
		middleware.Metrics, // Must wrap the mux directly to see r.Pattern
	)

	return handler
}

// noDirListing hides directory indexes of the upload folder
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
