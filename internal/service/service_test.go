package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/duong1906ltv/website/internal/db/dbtest"
	"github.com/duong1906ltv/website/internal/mail"
	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/repository"
	"github.com/duong1906ltv/website/internal/storage"
)

const testSecret = "test-secret"

type testEnv struct {
	db      *sqlx.DB
	mail    *mail.LogGateway
	tokens  *TokenService
	auth    *AuthService
	users   *UserService
	posts   *PostService
	storage *storage.LocalStorage
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithGateway(t, nil)
}

// newTestEnvWithGateway builds services over a fresh database. A nil gateway
// means emails are captured by a LogGateway.
func newTestEnvWithGateway(t *testing.T, gateway mail.Gateway) *testEnv {
	t.Helper()

	conn := dbtest.New(t)
	logGateway := mail.NewLogGateway()
	if gateway == nil {
		gateway = logGateway
	}

	local, err := storage.NewLocalStorage(t.TempDir(), storage.LocalURLPrefix)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(conn)
	tokens := NewTokenService(testSecret)
	emails := NewEmailService(gateway, "http://blog.test", "Blog")

	return &testEnv{
		db:      conn,
		mail:    logGateway,
		tokens:  tokens,
		auth:    NewAuthService(userRepo, repository.NewTokenRepository(conn), tokens, emails, false, time.Hour, time.Hour, time.Hour),
		users:   NewUserService(userRepo),
		posts:   NewPostService(repository.NewPostRepository(conn), repository.NewCommentRepository(conn), repository.NewLikeRepository(conn), NewFileService(local), 2),
		storage: local,
	}
}

func (e *testEnv) signUp(t *testing.T, email, username string) *model.User {
	t.Helper()
	user, err := e.auth.SignUp(context.Background(), SignUpInput{
		Email:                email,
		Username:             username,
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	})
	require.NoError(t, err)
	return user
}

var linkPattern = regexp.MustCompile(`/(confirm|reset)/([A-Za-z0-9_\-.]+)`)

// linkToken pulls the token out of the last email sent to the address
func (e *testEnv) linkToken(t *testing.T, to string) string {
	t.Helper()
	msg, ok := e.mail.Last(to)
	require.True(t, ok, "no email sent to %s", to)
	m := linkPattern.FindStringSubmatch(msg.HTML)
	require.NotNil(t, m, "no link in email body")
	return m[2]
}

type failingGateway struct{}

func (failingGateway) Send(ctx context.Context, to, subject, htmlBody string) error {
	return errors.New("smtp: connection refused")
}
