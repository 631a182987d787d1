package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duong1906ltv/website/internal/config"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(2, time.Minute)

	for range 2 {
		ok, err := rl.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are counted separately")
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRedisLimiter(client, 3, time.Minute)

	for i := range 3 {
		ok, err := rl.Allow(ctx, "/login:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, err := rl.Allow(ctx, "/login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("rl:/login:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = rl.Allow(ctx, "/login:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "window resets after expiry")

	mr.Close()
	_, err = rl.Allow(ctx, "/login:1.2.3.4")
	assert.Error(t, err)
}

func TestNewLimiter(t *testing.T) {
	ctx := context.Background()

	l, err := NewLimiter(ctx, &config.Config{RateLimitEnabled: false})
	require.NoError(t, err)
	assert.IsType(t, unlimited{}, l)

	l, err = NewLimiter(ctx, &config.Config{RateLimitEnabled: true, AuthRateLimit: 5, AuthRateWindow: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &RateLimiter{}, l)

	mr := miniredis.RunT(t)
	l, err = NewLimiter(ctx, &config.Config{RateLimitEnabled: true, RedisURL: "redis://" + mr.Addr(), AuthRateLimit: 5, AuthRateWindow: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &RedisLimiter{}, l)

	_, err = NewLimiter(ctx, &config.Config{RateLimitEnabled: true, RedisURL: "://bad"})
	assert.Error(t, err)
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, assert.AnError
}

func TestRateLimitMiddleware(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	t.Run("rejects past the limit", func(t *testing.T) {
		h := RateLimit(NewRateLimiter(1, time.Minute))(ok)

		for _, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, want, rec.Code)
		}
	})

	t.Run("fails open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RateLimit(brokenLimiter{})(ok)(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
