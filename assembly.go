package sitesect

import (
	"context"
	"time"
)

// PageSpec describes one named sub-page of an assembled site.
type PageSpec struct {
	// Title is the page's HTML title; defaults to the page name.
	Title string `json:"title,omitempty"`

	// Sections lists section names in placement order. Names absent from
	// the bundle set are silently skipped.
	Sections []string `json:"sections"`
}

// AssemblyPlan describes how extracted sections combine into a site.
// Unknown section names are silently skipped, never an error.
type AssemblyPlan struct {
	// Title is the site title; defaults to "Assembled Site".
	Title string `json:"title,omitempty"`

	// SectionOrder, when set, fixes the main page's section order; bundles
	// absent from it are dropped from the main page. When empty, bundles
	// are placed in caller order.
	SectionOrder []string `json:"sectionOrder,omitempty"`

	// Pages maps page name to its spec; each becomes <name>.html.
	Pages map[string]PageSpec `json:"pages,omitempty"`
}

// AssembledSite is the write-once output of an assembly: a directory with
// index.html, optional named pages, merged styles.css/scripts.js, an assets/
// folder and a human-readable manifest.
type AssembledSite struct {
	// ID is a freshly generated short random id that keys the output
	// directory, avoiding collisions across repeated assemblies.
	ID string `json:"id"`

	// Dir is the output directory.
	Dir string `json:"dir"`

	// Title is the site title used on the main page.
	Title string `json:"title"`

	// Sections lists the section names placed on the main page, in order.
	Sections []string `json:"sections"`

	// Pages lists the named sub-pages written, sorted by name.
	Pages []string `json:"pages"`

	// BuiltAt is the assembly timestamp recorded in the manifest.
	BuiltAt time.Time `json:"builtAt"`
}

// Assembler combines an ordered list of section bundles into a new
// standalone multi-page site. Any unexpected I/O error aborts the whole
// operation with EASSEMBLY; a partial output directory may remain.
type Assembler interface {
	Assemble(ctx context.Context, bundles []*SectionBundle, plan *AssemblyPlan) (*AssembledSite, error)
}
