// Package slog provides logging decorators for the pipeline's domain
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesect"
)

// Ensure LoggingMatcher implements sitesect.Matcher.
var _ sitesect.Matcher = (*LoggingMatcher)(nil)

// LoggingMatcher wraps a Matcher with logging of the winning strategy.
type LoggingMatcher struct {
	next   sitesect.Matcher
	logger *slog.Logger
}

// NewLoggingMatcher creates a new LoggingMatcher.
func NewLoggingMatcher(next sitesect.Matcher, logger *slog.Logger) *LoggingMatcher {
	return &LoggingMatcher{next: next, logger: logger}
}

// Match logs the result's method, selector and confidence and delegates to
// the wrapped matcher.
func (m *LoggingMatcher) Match(ctx context.Context, shot *sitesect.Screenshot, docs []*sitesect.Document, sectionName string) (result *sitesect.MatchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"documents", len(docs),
			"section", sectionName,
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"method", string(result.Method),
				"selector", result.Selector,
				"confidence", result.Confidence,
			)
		}
		m.logger.Info("match", attrs...)
	}(time.Now())
	return m.next.Match(ctx, shot, docs, sectionName)
}
