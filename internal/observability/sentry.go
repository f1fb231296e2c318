package observability

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

var sentryReady atomic.Bool

// InitSentry enables error reporting when a DSN is configured. It returns a
// flush func for shutdown; the func is a no-op when reporting is off.
func InitSentry(log *logger.Logger, cfg SentryConfig) func() {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return func() {}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		SampleRate:       1.0,
		AttachStacktrace: true,
		Environment:      strings.TrimSpace(cfg.Environment),
		Release:          strings.TrimSpace(cfg.Release),
		ServerName:       "",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			event.ServerName = ""
			return event
		},
	})
	if err != nil {
		if log != nil {
			log.Warn("sentry init failed (continuing without error reporting)", "error", err)
		}
		return func() {}
	}
	sentryReady.Store(true)
	if log != nil {
		log.Info("sentry error reporting enabled", "environment", cfg.Environment)
	}
	return func() { sentry.Flush(2 * time.Second) }
}

// CaptureError reports err with the given tags. It does nothing until
// InitSentry succeeded.
func CaptureError(err error, tags map[string]string) {
	if err == nil || !sentryReady.Load() {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
