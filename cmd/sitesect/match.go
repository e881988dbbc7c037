package main

import (
	"fmt"

	"github.com/fwojciec/sitesect"
)

// Run executes the match command.
func (c *MatchCmd) Run(deps *Dependencies) error {
	tree, err := deps.Sites.Find(c.Host)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	shot, err := deps.Screenshots.Load(c.Screenshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	match, err := deps.Matcher.Match(deps.Ctx, shot, deps.LoadDocuments(tree), c.Section)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "selector:   %s\n", match.Selector)
	fmt.Fprintf(deps.Stdout, "confidence: %.2f (%s)\n", match.Confidence, match.Method)
	fmt.Fprintf(deps.Stdout, "document:   %s\n", match.DocumentPath)
	if match.Rationale != "" {
		fmt.Fprintf(deps.Stdout, "rationale:  %s\n", match.Rationale)
	}
	if match.MatchedText != "" {
		fmt.Fprintf(deps.Stdout, "matched:    %s\n", match.MatchedText)
	}

	return nil
}
