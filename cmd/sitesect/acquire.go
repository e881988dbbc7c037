package main

import (
	"fmt"

	"github.com/fwojciec/sitesect"
)

// Run executes the acquire command.
func (c *AcquireCmd) Run(deps *Dependencies) error {
	tree, err := deps.Acquirer.Acquire(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Acquired %s (%d HTML documents) into %s\n", tree.Host, len(tree.Documents), tree.Root)
	return nil
}
