package mock

import (
	"context"

	"github.com/fwojciec/sitesect"
)

var _ sitesect.Acquirer = (*Acquirer)(nil)

// Acquirer is a mock implementation of sitesect.Acquirer.
type Acquirer struct {
	AcquireFn func(ctx context.Context, rawURL string) (*sitesect.SiteTree, error)
}

func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (*sitesect.SiteTree, error) {
	return a.AcquireFn(ctx, rawURL)
}
