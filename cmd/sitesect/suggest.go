package main

import (
	"fmt"

	"github.com/fwojciec/sitesect"
)

// Run executes the suggest command.
func (c *SuggestCmd) Run(deps *Dependencies) error {
	shot, err := deps.Screenshots.Load(c.Screenshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	names, err := deps.Suggester.SuggestNames(deps.Ctx, shot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	for _, name := range names {
		fmt.Fprintln(deps.Stdout, name)
	}

	return nil
}
