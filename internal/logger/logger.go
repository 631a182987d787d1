package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the process-wide logger, also installed as slog's default
var Log *slog.Logger

// levels per APP_ENV; anything else (production) logs JSON at info
var levels = map[string]slog.Level{
	"development": slog.LevelDebug,
	"test":        slog.LevelWarn,
}

// attribute keys whose values never reach the logs
var redacted = []string{"password", "token", "secret"}

// Init sets up the logger for appEnv. With a Sentry DSN, error records are
// also sent to Sentry. The returned func flushes pending Sentry events.
func Init(appEnv, sentryDSN string) (flush func()) {
	handler, sentryOn := newHandler(os.Stdout, appEnv, sentryDSN)
	Log = slog.New(handler)
	slog.SetDefault(Log)

	if !sentryOn {
		return func() {}
	}
	return func() { sentry.Flush(2 * time.Second) }
}

func newHandler(w io.Writer, appEnv, sentryDSN string) (slog.Handler, bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: redact}

	var local slog.Handler
	if level, ok := levels[appEnv]; ok {
		opts.Level = level
		local = slog.NewTextHandler(w, opts)
	} else {
		local = slog.NewJSONHandler(w, opts)
	}

	if sentryDSN == "" {
		return local, false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         sentryDSN,
		Environment: appEnv,
	})
	if err != nil {
		slog.New(local).Warn("sentry disabled", "error", err)
		return local, false
	}

	return slogmulti.Fanout(local, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler()), true
}

func redact(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, word := range redacted {
		if strings.Contains(key, word) {
			return slog.String(a.Key, "[redacted]")
		}
	}
	return a
}
