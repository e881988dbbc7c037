package assemble_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/sitesect"
	"github.com/fwojciec/sitesect/assemble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBundle fabricates an extracted section bundle on disk.
func writeBundle(t *testing.T, root, name, bodyHTML string, css, js map[string]string) *sitesect.SectionBundle {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0755))

	htmlFile := filepath.Join(dir, "section.html")
	standalone := "<!DOCTYPE html>\n<html><head><title>x</title></head><body>" + bodyHTML + "</body></html>"
	require.NoError(t, os.WriteFile(htmlFile, []byte(standalone), 0644))

	bundle := &sitesect.SectionBundle{
		Name:     name,
		Dir:      dir,
		HTMLFile: htmlFile,
	}
	for file, content := range css {
		path := filepath.Join(dir, "css", file)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		bundle.CSSFiles = append(bundle.CSSFiles, path)
	}
	for file, content := range js {
		path := filepath.Join(dir, "js", file)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		bundle.JSFiles = append(bundle.JSFiles, path)
	}
	return bundle
}

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("orders sections per plan", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "a", `<div class="a">section a</div>`, nil, nil)
		b := writeBundle(t, root, "b", `<div class="b">section b</div>`, nil, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a, b}, &sitesect.AssemblyPlan{
			SectionOrder: []string{"b", "a"},
		})

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(site.Dir, "index.html"))
		require.NoError(t, err)
		html := string(content)

		bMarker := strings.Index(html, "<!-- Section: b -->")
		aMarker := strings.Index(html, "<!-- Section: a -->")
		require.NotEqual(t, -1, bMarker)
		require.NotEqual(t, -1, aMarker)
		assert.Greater(t, aMarker, bMarker)
	})

	t.Run("embeds inner body content without body tag", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "hero", `<div id="hero">big banner</div>`, nil, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a}, nil)

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(site.Dir, "index.html"))
		require.NoError(t, err)
		html := string(content)
		assert.Contains(t, html, `<div id="hero">big banner</div>`)
		// Only the page's own body tags appear, not the bundle's.
		assert.Equal(t, 1, strings.Count(html, "<body>"))
	})

	t.Run("unknown plan names are silently skipped", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "a", `<p>a</p>`, nil, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a}, &sitesect.AssemblyPlan{
			SectionOrder: []string{"ghost", "a"},
			Pages: map[string]sitesect.PageSpec{
				"about": {Sections: []string{"missing", "a"}},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, site.Sections)

		page, err := os.ReadFile(filepath.Join(site.Dir, "about.html"))
		require.NoError(t, err)
		assert.NotContains(t, string(page), "missing")
		assert.Contains(t, string(page), "<!-- Section: a -->")
	})

	t.Run("bundles outside the order are dropped from the main page", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "a", `<p>aaa</p>`, nil, nil)
		b := writeBundle(t, root, "b", `<p>bbb</p>`, nil, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a, b}, &sitesect.AssemblyPlan{
			SectionOrder: []string{"a"},
		})

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(site.Dir, "index.html"))
		require.NoError(t, err)
		assert.NotContains(t, string(content), "bbb")
	})

	t.Run("merges stylesheets and scripts with section comments", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "header", `<div>h</div>`,
			map[string]string{"main.css": ".h { color: blue; }"},
			map[string]string{"app.js": "console.log('h');"})
		b := writeBundle(t, root, "footer", `<div>f</div>`,
			map[string]string{"footer.css": ".f { color: gray; }"}, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a, b}, nil)

		require.NoError(t, err)

		css, err := os.ReadFile(filepath.Join(site.Dir, "styles.css"))
		require.NoError(t, err)
		assert.Contains(t, string(css), "/* Section: header */")
		assert.Contains(t, string(css), "/* Section: footer */")
		assert.Contains(t, string(css), ".h { color: blue; }")
		assert.Less(t,
			strings.Index(string(css), "/* Section: header */"),
			strings.Index(string(css), "/* Section: footer */"))

		js, err := os.ReadFile(filepath.Join(site.Dir, "scripts.js"))
		require.NoError(t, err)
		assert.Contains(t, string(js), "// Section: header")
		assert.Contains(t, string(js), "console.log('h');")

		// Renamed copies land in assets/.
		assert.FileExists(t, filepath.Join(site.Dir, "assets", "header_main.css"))
		assert.FileExists(t, filepath.Join(site.Dir, "assets", "header_app.js"))
		assert.FileExists(t, filepath.Join(site.Dir, "assets", "footer_footer.css"))
	})

	t.Run("omits merged files when nothing contributed", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "bare", `<p>bare</p>`, nil, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a}, nil)

		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(site.Dir, "styles.css"))
		assert.NoFileExists(t, filepath.Join(site.Dir, "scripts.js"))
	})

	t.Run("images are copied verbatim with last write winning", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "a", `<p>a</p>`, nil, nil)
		b := writeBundle(t, root, "b", `<p>b</p>`, nil, nil)
		require.NoError(t, os.WriteFile(filepath.Join(a.Dir, "logo.png"), []byte("from-a"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(b.Dir, "logo.png"), []byte("from-b"), 0644))

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a, b}, nil)

		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(site.Dir, "assets", "logo.png"))
		require.NoError(t, err)
		assert.Equal(t, "from-b", string(got))
	})

	t.Run("zero sections still produce an index with the title", func(t *testing.T) {
		t.Parallel()

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, nil, &sitesect.AssemblyPlan{Title: "Empty Site"})

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(site.Dir, "index.html"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "<title>Empty Site</title>")
		assert.NotContains(t, string(content), "<!-- Section:")
	})

	t.Run("writes a manifest with sections and pages", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		a := writeBundle(t, root, "hero", `<p>x</p>`, nil, nil)

		asm := assemble.NewAssembler(t.TempDir())
		site, err := asm.Assemble(ctx, []*sitesect.SectionBundle{a}, &sitesect.AssemblyPlan{
			Title: "My Site",
			Pages: map[string]sitesect.PageSpec{
				"about": {Title: "About Us", Sections: []string{"hero"}},
			},
		})

		require.NoError(t, err)
		manifest, err := os.ReadFile(filepath.Join(site.Dir, "README.md"))
		require.NoError(t, err)
		text := string(manifest)
		assert.Contains(t, text, "# My Site")
		assert.Contains(t, text, "- hero")
		assert.Contains(t, text, "`about.html` - About Us")
	})

	t.Run("repeated assemblies use distinct directories", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		asm := assemble.NewAssembler(out)

		first, err := asm.Assemble(ctx, nil, nil)
		require.NoError(t, err)
		second, err := asm.Assemble(ctx, nil, nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.Dir, second.Dir)
		assert.NotEqual(t, first.ID, second.ID)
	})
}
