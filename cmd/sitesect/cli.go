package main

import (
	"context"
	"io"

	"github.com/fwojciec/sitesect"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Sites       sitesect.SiteStore
	Screenshots sitesect.ScreenshotStore
	Acquirer    sitesect.Acquirer
	Matcher     sitesect.Matcher
	Extractor   sitesect.Extractor
	Assembler   sitesect.Assembler
	Suggester   sitesect.Suggester

	// SectionsDir is where extracted bundles live, for assemble lookups.
	SectionsDir string

	// LoadDocuments reads a tree's documents for matching.
	LoadDocuments func(tree *sitesect.SiteTree) []*sitesect.Document

	// Capture takes a full-page screenshot of a URL; wired only when the
	// screenshots command asks for one.
	Capture func(ctx context.Context, url string) ([]byte, error)

	// Serve starts the API server; wired only for the serve command.
	Serve func(addr string) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Acquire     AcquireCmd     `cmd:"" help:"Download a website into a local site tree"`
	Sites       SitesCmd       `cmd:"" help:"List acquired site trees"`
	Screenshots ScreenshotsCmd `cmd:"" help:"List stored screenshots, or import one"`
	Match       MatchCmd       `cmd:"" help:"Match a screenshot to a section of an acquired site"`
	Extract     ExtractCmd     `cmd:"" help:"Extract a section with its CSS/JS dependencies"`
	Assemble    AssembleCmd    `cmd:"" help:"Assemble extracted sections into a new site"`
	Suggest     SuggestCmd     `cmd:"" help:"Suggest section names for a screenshot"`
	Serve       ServeCmd       `cmd:"" help:"Run the JSON API server"`
}

// AcquireCmd is the "acquire" subcommand.
type AcquireCmd struct {
	URL      string `arg:"" help:"Website URL"`
	NoMirror bool   `help:"Skip the mirror tool and fetch the single page directly"`
	Render   bool   `short:"r" help:"Use a headless browser for the single-page fallback"`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct{}

// ScreenshotsCmd is the "screenshots" subcommand.
type ScreenshotsCmd struct {
	Add     string `short:"a" placeholder:"PATH" help:"Import an image file into the screenshot store"`
	Capture string `short:"c" placeholder:"URL" help:"Capture a full-page screenshot of a URL with a headless browser"`
}

// MatchCmd is the "match" subcommand.
type MatchCmd struct {
	Host       string `arg:"" help:"Acquired site host (as shown by 'sitesect sites')"`
	Screenshot string `arg:"" help:"Stored screenshot path"`
	Section    string `short:"s" help:"Section name hint for the vision scorer"`
	Signature  string `help:"Fixed textual signature to match against document text (no API key needed)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Host     string `arg:"" help:"Acquired site host"`
	Section  string `arg:"" help:"Section name for the bundle"`
	Selector string `help:"Advisory CSS selector from a prior match"`
	Document string `short:"d" help:"Source document path; defaults to the tree's first document"`
}

// AssembleCmd is the "assemble" subcommand.
type AssembleCmd struct {
	Sections []string `arg:"" optional:"" help:"Section names in placement order; defaults to all extracted sections"`
	Title    string   `short:"t" default:"Assembled Site" help:"Site title"`
}

// SuggestCmd is the "suggest" subcommand.
type SuggestCmd struct {
	Screenshot string `arg:"" help:"Stored screenshot path"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}
