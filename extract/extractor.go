// Package extract pulls matched sections out of acquired site trees into
// self-contained bundles.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesect"
)

// Ensure Extractor implements sitesect.Extractor at compile time.
var _ sitesect.Extractor = (*Extractor)(nil)

// Extractor writes section bundles under a base directory, one folder per
// section name. Re-extracting a name overwrites the prior bundle in place.
type Extractor struct {
	baseDir string
}

// NewExtractor creates an Extractor writing bundles under baseDir.
func NewExtractor(baseDir string) *Extractor {
	return &Extractor{baseDir: baseDir}
}

// Extract resolves the matched element inside its source document, collects
// the document's local CSS/JS dependencies, and writes a standalone bundle.
func (e *Extractor) Extract(ctx context.Context, tree *sitesect.SiteTree, match *sitesect.MatchResult, sectionName string) (*sitesect.SectionBundle, error) {
	if sectionName == "" {
		return nil, sitesect.Errorf(sitesect.EINVALID, "section name required")
	}
	if match == nil {
		return nil, sitesect.Errorf(sitesect.EINVALID, "match result required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docPath := match.DocumentPath
	if docPath == "" {
		if len(tree.Documents) == 0 {
			return nil, sitesect.Errorf(sitesect.ENODOCUMENTS, "site tree %q contains no HTML documents", tree.Host)
		}
		docPath = tree.Documents[0]
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.ENOTFOUND, "source document %q not readable", docPath)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINVALID, "parsing %q", docPath)
	}

	element := resolveElement(doc, match.Selector, sectionName)
	if element == nil {
		return nil, sitesect.Errorf(sitesect.ESECTION, "no element resolved for section %q (selector %q) in %s", sectionName, match.Selector, docPath)
	}

	// Dependencies come from the whole document, not just the matched
	// subtree: stylesheets and scripts usually live in the page head.
	cssPaths := resolveDependencies(doc, `link[rel="stylesheet"]`, "href", tree.Root, filepath.Dir(docPath))
	jsPaths := resolveDependencies(doc, "script[src]", "src", tree.Root, filepath.Dir(docPath))

	dir := filepath.Join(e.baseDir, sectionName)

	// Overwrite any prior bundle for this section name.
	if err := os.RemoveAll(dir); err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "clearing bundle directory %q", dir)
	}

	copiedCSS, err := copyInto(cssPaths, filepath.Join(dir, "css"))
	if err != nil {
		return nil, err
	}
	copiedJS, err := copyInto(jsPaths, filepath.Join(dir, "js"))
	if err != nil {
		return nil, err
	}

	markup, err := goquery.OuterHtml(element)
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "serializing section %q", sectionName)
	}

	htmlFile := filepath.Join(dir, "section.html")
	standalone := buildSectionHTML(markup, copiedCSS, copiedJS)
	if err := os.WriteFile(htmlFile, []byte(standalone), 0644); err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "writing %q", htmlFile)
	}

	return &sitesect.SectionBundle{
		Name:       sectionName,
		SourcePath: docPath,
		Dir:        dir,
		HTMLFile:   htmlFile,
		CSSFiles:   copiedCSS,
		JSFiles:    copiedJS,
	}, nil
}

// resolveElement locates the target element. Each lookup is tried only if
// the previous yielded nothing: the advisory selector, the section name as a
// class, the section name as an id, then body, main, and a generic
// container. Returns nil when nothing resolves.
func resolveElement(doc *goquery.Document, selector, sectionName string) *goquery.Selection {
	if selector != "" {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if sel := doc.Find("." + sectionName).First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("#" + sectionName).First(); sel.Length() > 0 {
		return sel
	}
	// The HTML parser synthesizes a body for every document; an empty one
	// means the source had no real body content to extract.
	if sel := doc.Find("body").First(); sel.Length() > 0 {
		if sel.Children().Length() > 0 || strings.TrimSpace(sel.Text()) != "" {
			return sel
		}
	}
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("div.container").First(); sel.Length() > 0 {
		return sel
	}
	return nil
}

// resolveDependencies scans the document for local file references and
// returns the ones that exist on disk. Absolute-path references resolve
// against the site tree root, bare relative ones against the document's own
// directory, and fully-qualified external URLs are skipped, never fetched.
// Missing files are silently dropped.
func resolveDependencies(doc *goquery.Document, selector, attr, root, docDir string) []string {
	var paths []string
	seen := make(map[string]bool)

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		ref, ok := sel.Attr(attr)
		if !ok || ref == "" {
			return
		}
		if strings.HasPrefix(ref, "http") {
			return
		}

		// Mirrored references sometimes carry cache-busting queries.
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			ref = ref[:i]
		}
		if ref == "" {
			return
		}

		var path string
		if strings.HasPrefix(ref, "/") {
			path = filepath.Join(root, strings.TrimPrefix(ref, "/"))
		} else {
			path = filepath.Join(docDir, ref)
		}

		if seen[path] {
			return
		}
		seen[path] = true

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			paths = append(paths, path)
		}
	})

	return paths
}

// copyInto copies files into dir, returning the destination paths.
// Base-name collisions overwrite.
func copyInto(srcs []string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "creating %q", dir)
	}

	var dsts []string
	for _, src := range srcs {
		dst := filepath.Join(dir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "copying %q", src)
		}
		dsts = append(dsts, dst)
	}
	return dsts, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// buildSectionHTML embeds the section markup in a standalone document with
// relative links to the copied dependencies.
func buildSectionHTML(markup string, cssFiles, jsFiles []string) string {
	var links strings.Builder
	for _, f := range cssFiles {
		fmt.Fprintf(&links, "    <link rel=\"stylesheet\" href=\"css/%s\">\n", filepath.Base(f))
	}

	var scripts strings.Builder
	for _, f := range jsFiles {
		fmt.Fprintf(&scripts, "    <script src=\"js/%s\"></script>\n", filepath.Base(f))
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("    <title>Extracted Section</title>\n")
	b.WriteString(links.String())
	b.WriteString("</head>\n<body>\n    ")
	b.WriteString(markup)
	b.WriteString("\n")
	b.WriteString(scripts.String())
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
