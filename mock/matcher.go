package mock

import (
	"context"

	"github.com/fwojciec/sitesect"
)

var _ sitesect.Matcher = (*Matcher)(nil)

// Matcher is a mock implementation of sitesect.Matcher.
type Matcher struct {
	MatchFn func(ctx context.Context, shot *sitesect.Screenshot, docs []*sitesect.Document, sectionName string) (*sitesect.MatchResult, error)
}

func (m *Matcher) Match(ctx context.Context, shot *sitesect.Screenshot, docs []*sitesect.Document, sectionName string) (*sitesect.MatchResult, error) {
	return m.MatchFn(ctx, shot, docs, sectionName)
}
