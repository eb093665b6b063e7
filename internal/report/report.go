// Package report forwards captured errors to an external tracker.
package report

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Reporter captures errors for later inspection.
type Reporter interface {
	CaptureError(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NoopReporter discards everything. Used when no DSN is configured.
type NoopReporter struct{}

func (NoopReporter) CaptureError(err error, tags map[string]string) {}
func (NoopReporter) Flush(timeout time.Duration)                    {}

// SentryReporter sends errors to Sentry.
type SentryReporter struct {
	logger *logging.Logger
}

// NewSentryReporter initializes the Sentry SDK. An empty DSN returns a
// NoopReporter instead.
func NewSentryReporter(dsn, environment string, logger *logging.Logger) (Reporter, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if dsn == "" {
		return NoopReporter{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("sentry error reporting enabled", "environment", environment)
	return &SentryReporter{logger: logger}, nil
}

func (r *SentryReporter) CaptureError(err error, tags map[string]string) {
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

func (r *SentryReporter) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
