// Package assemble combines extracted section bundles into standalone sites.
package assemble

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesect"
	"github.com/google/uuid"
)

// DefaultTitle is used when the plan supplies none.
const DefaultTitle = "Assembled Site"

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".ico":  true,
}

// Ensure Assembler implements sitesect.Assembler at compile time.
var _ sitesect.Assembler = (*Assembler)(nil)

// Assembler writes assembled sites under a base directory. Each assembly
// gets a fresh short random id so repeated assemblies never collide.
type Assembler struct {
	baseDir string

	// newID generates the output directory suffix; overridable in tests.
	newID func() string

	// now supplies the manifest timestamp; overridable in tests.
	now func() time.Time
}

// NewAssembler creates an Assembler writing under baseDir.
func NewAssembler(baseDir string) *Assembler {
	return &Assembler{
		baseDir: baseDir,
		newID:   func() string { return uuid.NewString()[:8] },
		now:     time.Now,
	}
}

// Assemble builds the output site. Any unexpected I/O error aborts the whole
// operation as EASSEMBLY; a partial output directory may remain.
func (a *Assembler) Assemble(ctx context.Context, bundles []*sitesect.SectionBundle, plan *sitesect.AssemblyPlan) (*sitesect.AssembledSite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if plan == nil {
		plan = &sitesect.AssemblyPlan{}
	}

	title := plan.Title
	if title == "" {
		title = DefaultTitle
	}

	byName := make(map[string]*sitesect.SectionBundle)
	for _, b := range bundles {
		if _, ok := byName[b.Name]; !ok {
			byName[b.Name] = b
		}
	}

	// Main page order: the plan's explicit order when given (names missing
	// from the bundle set are silently skipped, bundles missing from the
	// order are dropped), otherwise caller order.
	var mainOrder []string
	if len(plan.SectionOrder) > 0 {
		for _, name := range plan.SectionOrder {
			if _, ok := byName[name]; ok {
				mainOrder = append(mainOrder, name)
			}
		}
	} else {
		for _, b := range bundles {
			mainOrder = append(mainOrder, b.Name)
		}
	}

	id := a.newID()
	dir := filepath.Join(a.baseDir, "assembled_site_"+id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "creating output directory %q", dir)
	}

	// Main page.
	if err := a.writePage(filepath.Join(dir, "index.html"), title, mainOrder, byName); err != nil {
		return nil, err
	}

	// Named sub-pages, walked in sorted order for reproducible output.
	var pageNames []string
	for name := range plan.Pages {
		pageNames = append(pageNames, name)
	}
	sort.Strings(pageNames)

	for _, name := range pageNames {
		spec := plan.Pages[name]
		pageTitle := spec.Title
		if pageTitle == "" {
			pageTitle = name
		}
		var order []string
		for _, s := range spec.Sections {
			if _, ok := byName[s]; ok {
				order = append(order, s)
			}
		}
		if err := a.writePage(filepath.Join(dir, name+".html"), pageTitle, order, byName); err != nil {
			return nil, err
		}
	}

	if err := copyAssets(bundles, filepath.Join(dir, "assets")); err != nil {
		return nil, err
	}
	if err := writeMerged(bundles, filepath.Join(dir, "styles.css"), bundleCSS, cssComment); err != nil {
		return nil, err
	}
	if err := writeMerged(bundles, filepath.Join(dir, "scripts.js"), bundleJS, jsComment); err != nil {
		return nil, err
	}

	site := &sitesect.AssembledSite{
		ID:       id,
		Dir:      dir,
		Title:    title,
		Sections: mainOrder,
		Pages:    pageNames,
		BuiltAt:  a.now(),
	}

	if err := writeManifest(site, bundles, plan); err != nil {
		return nil, err
	}

	return site, nil
}

// writePage concatenates section bodies in order, each preceded by a
// comment marker, into a page document.
func (a *Assembler) writePage(path, title string, order []string, byName map[string]*sitesect.SectionBundle) error {
	var sections strings.Builder
	for _, name := range order {
		bundle := byName[name]
		content := sectionBody(bundle)
		if content == "" {
			continue
		}
		fmt.Fprintf(&sections, "\n    <!-- Section: %s -->\n    %s\n", name, content)
	}

	html := buildPageHTML(title, sections.String())
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "writing page %q", path)
	}
	return nil
}

// sectionBody returns a bundle's embeddable content: the inner serialization
// of its standalone document's body when present, the raw file verbatim
// otherwise. A bundle whose file cannot be read contributes nothing.
func sectionBody(bundle *sitesect.SectionBundle) string {
	raw, err := os.ReadFile(bundle.HTMLFile)
	if err != nil {
		// The standalone file may have been renamed; accept any HTML file
		// in the bundle directory.
		entries, dirErr := os.ReadDir(bundle.Dir)
		if dirErr != nil {
			return ""
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}
			if raw, err = os.ReadFile(filepath.Join(bundle.Dir, entry.Name())); err == nil {
				break
			}
		}
		if err != nil {
			return ""
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return string(raw)
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return string(raw)
	}
	inner, err := body.Html()
	if err != nil {
		return string(raw)
	}
	return strings.TrimSpace(inner)
}

// copyAssets consolidates every bundle's files into a shared assets folder.
// CSS/JS files are renamed <section>_<file> to avoid collisions; images keep
// their original names, so image collisions across sections are last-write-
// wins.
func copyAssets(bundles []*sitesect.SectionBundle, assetsDir string) error {
	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "creating %q", assetsDir)
	}

	for _, bundle := range bundles {
		for _, f := range append(append([]string{}, bundle.CSSFiles...), bundle.JSFiles...) {
			dst := filepath.Join(assetsDir, bundle.Name+"_"+filepath.Base(f))
			if err := copyFile(f, dst); err != nil {
				return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "copying asset %q", f)
			}
		}

		err := filepath.WalkDir(bundle.Dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			return copyFile(path, filepath.Join(assetsDir, d.Name()))
		})
		if err != nil && !os.IsNotExist(err) {
			return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "copying images from %q", bundle.Dir)
		}
	}
	return nil
}

func bundleCSS(b *sitesect.SectionBundle) []string { return b.CSSFiles }
func bundleJS(b *sitesect.SectionBundle) []string  { return b.JSFiles }

func cssComment(name string) string { return "/* Section: " + name + " */" }
func jsComment(name string) string  { return "// Section: " + name }

// writeMerged concatenates every bundle's files of one kind, each preceded
// by a section comment and separated by blank lines. When no section
// contributed content the file is omitted entirely.
func writeMerged(bundles []*sitesect.SectionBundle, path string, files func(*sitesect.SectionBundle) []string, comment func(string) string) error {
	var parts []string
	for _, bundle := range bundles {
		for _, f := range files(bundle) {
			content, err := os.ReadFile(f)
			if err != nil {
				return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "reading %q", f)
			}
			parts = append(parts, comment(bundle.Name)+"\n"+string(content))
		}
	}
	if len(parts) == 0 {
		return nil
	}

	merged := strings.Join(parts, "\n\n") + "\n"
	if err := os.WriteFile(path, []byte(merged), 0644); err != nil {
		return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "writing %q", path)
	}
	return nil
}

// writeManifest emits the human-readable build summary alongside the HTML.
func writeManifest(site *sitesect.AssembledSite, bundles []*sitesect.SectionBundle, plan *sitesect.AssemblyPlan) error {
	var b strings.Builder
	b.WriteString("# " + site.Title + "\n\n")
	b.WriteString("Assembled from extracted website sections.\n\n")
	b.WriteString("- Built: " + site.BuiltAt.Format("2006-01-02 15:04:05") + "\n")
	fmt.Fprintf(&b, "- Site id: %s\n\n", site.ID)

	b.WriteString("## Sections\n\n")
	if len(bundles) == 0 {
		b.WriteString("(none)\n")
	}
	for _, bundle := range bundles {
		b.WriteString("- " + bundle.Name + "\n")
	}

	b.WriteString("\n## Pages\n\n")
	b.WriteString("- `index.html`\n")
	for _, name := range site.Pages {
		title := plan.Pages[name].Title
		if title == "" {
			title = name
		}
		fmt.Fprintf(&b, "- `%s.html` - %s\n", name, title)
	}

	b.WriteString("\n## Files\n\n")
	b.WriteString("- `styles.css` - merged section styles\n")
	b.WriteString("- `scripts.js` - merged section scripts\n")
	b.WriteString("- `assets/` - consolidated section assets\n")

	path := filepath.Join(site.Dir, "README.md")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return sitesect.WrapErrorf(err, sitesect.EASSEMBLY, "writing manifest %q", path)
	}
	return nil
}

func buildPageHTML(title, sections string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("    <title>" + title + "</title>\n")
	b.WriteString("    <link rel=\"stylesheet\" href=\"styles.css\">\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(sections)
	b.WriteString("\n    <script src=\"scripts.js\"></script>\n</body>\n</html>\n")
	return b.String()
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
