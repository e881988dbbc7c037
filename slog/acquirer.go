package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesect"
)

// Ensure LoggingAcquirer implements sitesect.Acquirer.
var _ sitesect.Acquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps an Acquirer with logging.
type LoggingAcquirer struct {
	next   sitesect.Acquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next sitesect.Acquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// Acquire logs the URL, document count and duration and delegates to the
// wrapped acquirer.
func (a *LoggingAcquirer) Acquire(ctx context.Context, rawURL string) (tree *sitesect.SiteTree, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", rawURL,
			"duration", time.Since(begin),
			"err", err,
		}
		if tree != nil {
			attrs = append(attrs, "host", tree.Host, "documents", len(tree.Documents))
		}
		a.logger.Info("acquire", attrs...)
	}(time.Now())
	return a.next.Acquire(ctx, rawURL)
}
