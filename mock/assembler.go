package mock

import (
	"context"

	"github.com/fwojciec/sitesect"
)

var _ sitesect.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of sitesect.Assembler.
type Assembler struct {
	AssembleFn func(ctx context.Context, bundles []*sitesect.SectionBundle, plan *sitesect.AssemblyPlan) (*sitesect.AssembledSite, error)
}

func (a *Assembler) Assemble(ctx context.Context, bundles []*sitesect.SectionBundle, plan *sitesect.AssemblyPlan) (*sitesect.AssembledSite, error) {
	return a.AssembleFn(ctx, bundles, plan)
}
