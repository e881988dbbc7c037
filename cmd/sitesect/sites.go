package main

import (
	"fmt"

	"github.com/fwojciec/sitesect"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	trees, err := deps.Sites.List()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	if len(trees) == 0 {
		fmt.Fprintln(deps.Stdout, "No sites acquired. Use 'sitesect acquire' to download one.")
		return nil
	}

	for _, tree := range trees {
		fmt.Fprintf(deps.Stdout, "%s  %d documents  %s\n", tree.Host, len(tree.Documents), tree.Root)
	}

	return nil
}
