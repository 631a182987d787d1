package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/ctxkeys"
	"github.com/duong1906ltv/website/internal/db/dbtest"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/repository"
	"github.com/duong1906ltv/website/internal/service"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestConfirmationExempt(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/login", true},
		{"/logout", true},
		{"/unconfirmed", true},
		{"/confirm", true},
		{"/confirm/abc.def.ghi", true},
		{"/reset/abc", true},
		{"/change_password", true},
		{"/assets/app.css", true},
		{"/", false},
		{"/home", false},
		{"/create-post", false},
		{"/confirmed", false},
		{"/posts/1", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, confirmationExempt(tt.path))
		})
	}
}

func TestRequireConfirmed(t *testing.T) {
	conn := dbtest.New(t)
	userRepo := repository.NewUserRepository(conn)
	users := service.NewUserService(userRepo)

	before := time.Now().UTC().Add(-time.Hour)
	user := &model.User{Email: "a@x.com", Username: "alice", PasswordHash: "h", MemberSince: before, LastSeen: before}
	require.NoError(t, userRepo.Create(context.Background(), user))

	h := RequireConfirmed(users)(http.HandlerFunc(okHandler))

	serve := func(u *model.User, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if u != nil {
			req = req.WithContext(ctxkeys.WithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(nil, "/").Code, "anonymous users pass")

	rec := serve(user, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/unconfirmed", rec.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, serve(user, "/confirm/token").Code)

	stored, err := userRepo.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastSeen.After(before), "last seen is recorded")

	confirmed := *user
	confirmed.Confirmed = true
	assert.Equal(t, http.StatusOK, serve(&confirmed, "/").Code)
}

func TestRequireAuthAndGuest(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAuth(okHandler)(rec, httptest.NewRequest(http.MethodGet, "/create-post", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: 1}))
	rec = httptest.NewRecorder()
	RequireGuest(okHandler)(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.Len(t, token, 43)
	cookie := rec.Result().Cookies()[0]

	post := func(submitted string) int {
		req := httptest.NewRequest(http.MethodPost, "/like-post/1", nil)
		req.AddCookie(cookie)
		req.Header.Set("X-CSRF-Token", submitted)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post(token))
	assert.Equal(t, http.StatusForbidden, post("wrong"))
	assert.Equal(t, http.StatusForbidden, post(""))

	form := strings.NewReader("csrf_token=" + token)
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.Config{AppEnv: "production", StorageDriver: config.StorageDriverS3, S3Bucket: "pics", S3Region: "eu-west-1"}
	h := Chain(http.HandlerFunc(okHandler), Config(cfg), Nonce, SecurityHeaders)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "script-src 'self' 'nonce-")
	assert.Contains(t, csp, "img-src 'self' data: https://pics.s3.eu-west-1.amazonaws.com")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestFlash(t *testing.T) {
	set := httptest.NewRecorder()
	flash.Success(set, false, "Logged in!")

	var got []flash.Message
	h := Flash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.Flashes(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(set.Result().Cookies()[0])
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, got, 1)
	assert.Equal(t, "Logged in!", got[0].Text)
}

func TestMetricsRecordsPattern(t *testing.T) {
	mux := http.NewServeMux()
	var pattern string
	mux.HandleFunc("GET /posts/{key}", func(w http.ResponseWriter, r *http.Request) {
		pattern = r.Pattern
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	Metrics(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/7", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "GET /posts/{key}", pattern)
}

func TestRequestLoggingRequestID(t *testing.T) {
	h := RequestLogging(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "from-proxy")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "from-proxy", rec.Header().Get("X-Request-ID"))
}
