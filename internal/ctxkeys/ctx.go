package ctxkeys

import (
	"context"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/flash"
	"github.com/duong1906ltv/website/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	FlashKey     contextKey = "flash"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

// UserID is the current user's id, 0 for anonymous requests
func UserID(ctx context.Context) int64 {
	if user := User(ctx); user != nil {
		return user.ID
	}
	return 0
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// Flashes are the messages carried over from the previous response
func Flashes(ctx context.Context) []flash.Message {
	messages, _ := ctx.Value(FlashKey).([]flash.Message)
	return messages
}

func WithFlashes(ctx context.Context, messages []flash.Message) context.Context {
	return context.WithValue(ctx, FlashKey, messages)
}
