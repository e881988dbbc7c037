package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/sitesect"
)

// Run executes the screenshots command.
func (c *ScreenshotsCmd) Run(deps *Dependencies) error {
	if c.Capture != "" {
		host, err := sitesect.NormalizeHost(c.Capture)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
			return err
		}

		data, err := deps.Capture(deps.Ctx, c.Capture)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
			return err
		}

		shot, err := deps.Screenshots.Save(host+".png", data)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stdout, "Captured %s (%s %dx%d)\n", shot.Path, shot.Format, shot.Width, shot.Height)
		return nil
	}

	if c.Add != "" {
		data, err := os.ReadFile(c.Add)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: cannot read %q: %v\n", c.Add, err)
			return err
		}

		shot, err := deps.Screenshots.Save(filepath.Base(c.Add), data)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stdout, "Imported %s (%s %dx%d)\n", shot.Path, shot.Format, shot.Width, shot.Height)
		return nil
	}

	shots, err := deps.Screenshots.List()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesect.ErrorMessage(err))
		return err
	}

	if len(shots) == 0 {
		fmt.Fprintln(deps.Stdout, "No screenshots stored. Use 'sitesect screenshots --add PATH' to import one.")
		return nil
	}

	for _, shot := range shots {
		fmt.Fprintf(deps.Stdout, "%s  %s %dx%d  %s\n", shot.Path, shot.Format, shot.Width, shot.Height, shot.Fingerprint)
	}

	return nil
}
