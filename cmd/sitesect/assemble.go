package main

import (
	"fmt"

	"github.com/fwojciec/sitesect"
	"github.com/fwojciec/sitesect/extract"
)

// Run executes the assemble command.
func (c *AssembleCmd) Run(deps *Dependencies) error {
	var bundles []*sitesect.SectionBundle
	var err error

	if len(c.Sections) > 0 {
		for _, name := range c.Sections {
			bundle, err := extract.LoadBundle(deps.SectionsDir, name)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
				return err
			}
			bundles = append(bundles, bundle)
		}
	} else {
		bundles, err = extract.ListBundles(deps.SectionsDir)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
			return err
		}
	}

	if len(bundles) == 0 {
		fmt.Fprintln(deps.Stdout, "No extracted sections. Use 'sitesect extract' first.")
		return nil
	}

	site, err := deps.Assembler.Assemble(deps.Ctx, bundles, &sitesect.AssemblyPlan{Title: c.Title})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Assembled %d section(s) into %s\n", len(site.Sections), site.Dir)
	return nil
}
