package mock

import (
	"context"

	"github.com/fwojciec/sitesect"
)

var _ sitesect.VisionScorer = (*VisionScorer)(nil)

// VisionScorer is a mock implementation of sitesect.VisionScorer.
type VisionScorer struct {
	ScoreSectionFn func(ctx context.Context, shot *sitesect.Screenshot, html string, sectionName string) (*sitesect.VisionResult, error)
}

func (v *VisionScorer) ScoreSection(ctx context.Context, shot *sitesect.Screenshot, html string, sectionName string) (*sitesect.VisionResult, error) {
	return v.ScoreSectionFn(ctx, shot, html, sectionName)
}

var _ sitesect.Suggester = (*Suggester)(nil)

// Suggester is a mock implementation of sitesect.Suggester.
type Suggester struct {
	SuggestNamesFn func(ctx context.Context, shot *sitesect.Screenshot) ([]string, error)
}

func (s *Suggester) SuggestNames(ctx context.Context, shot *sitesect.Screenshot) ([]string, error) {
	return s.SuggestNamesFn(ctx, shot)
}
