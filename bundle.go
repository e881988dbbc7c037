package sitesect

import "context"

// SectionBundle is a self-contained extracted section: a standalone HTML
// document plus copies of the CSS/JS files it depends on. Bundles are never
// mutated after creation; re-extracting the same section name overwrites the
// prior bundle in place.
//
// Invariant: CSSFiles and JSFiles reference files that physically exist
// under Dir when the bundle is handed to an Assembler.
type SectionBundle struct {
	// Name is the caller-chosen section name; it doubles as the bundle
	// directory name and the asset-rename prefix during assembly.
	Name string `json:"name"`

	// SourcePath is the HTML document the section was extracted from.
	SourcePath string `json:"sourcePath"`

	// Dir is the bundle's destination folder.
	Dir string `json:"dir"`

	// HTMLFile is the standalone section document (Dir/section.html).
	HTMLFile string `json:"htmlFile"`

	// CSSFiles and JSFiles are the copied dependency files under Dir.
	CSSFiles []string `json:"cssFiles"`
	JSFiles  []string `json:"jsFiles"`
}

// Validate returns an error if the bundle contains invalid fields.
func (b *SectionBundle) Validate() error {
	if b.Name == "" {
		return Errorf(EINVALID, "section bundle name required")
	}
	if b.Dir == "" {
		return Errorf(EINVALID, "section bundle directory required")
	}
	return nil
}

// Extractor pulls a matched DOM subtree plus its local CSS/JS dependencies
// out of a site tree into a self-contained bundle.
type Extractor interface {
	// Extract resolves the match's selector inside its source document,
	// falling back through sectionName-based lookups and generic containers,
	// and writes the bundle. Returns ESECTION if nothing resolves.
	Extract(ctx context.Context, tree *SiteTree, match *MatchResult, sectionName string) (*SectionBundle, error)
}
