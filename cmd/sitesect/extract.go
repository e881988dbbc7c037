package main

import (
	"fmt"

	"github.com/fwojciec/sitesect"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	tree, err := deps.Sites.Find(c.Host)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	// The selector is advisory: the extractor falls back through
	// name-based lookups when it resolves nothing.
	match := &sitesect.MatchResult{
		Selector:     c.Selector,
		Method:       sitesect.MethodFallback,
		DocumentPath: c.Document,
	}

	bundle, err := deps.Extractor.Extract(deps.Ctx, tree, match, c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted %q from %s\n", bundle.Name, bundle.SourcePath)
	fmt.Fprintf(deps.Stdout, "  %s\n", bundle.HTMLFile)
	fmt.Fprintf(deps.Stdout, "  %d stylesheet(s), %d script(s)\n", len(bundle.CSSFiles), len(bundle.JSFiles))
	return nil
}
