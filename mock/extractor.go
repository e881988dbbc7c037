package mock

import (
	"context"

	"github.com/fwojciec/sitesect"
)

var _ sitesect.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitesect.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, tree *sitesect.SiteTree, match *sitesect.MatchResult, sectionName string) (*sitesect.SectionBundle, error)
}

func (e *Extractor) Extract(ctx context.Context, tree *sitesect.SiteTree, match *sitesect.MatchResult, sectionName string) (*sitesect.SectionBundle, error) {
	return e.ExtractFn(ctx, tree, match, sectionName)
}
