// Package errreport forwards unrecoverable errors to Sentry.
//
// Reporting is optional: when no DSN is configured, Init is a no-op and
// Capture drops events.
package errreport

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Init configures the global Sentry client. An empty dsn disables reporting.
func Init(dsn, env, release string, logger *zap.Logger) error {
	if dsn == "" {
		logger.Info("sentry disabled (no dsn)")
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return err
	}
	logger.Info("sentry enabled", zap.String("env", env))
	return nil
}

// Capture reports err with a few string tags. Safe to call when Init was
// never called or was given an empty dsn.
func Capture(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
