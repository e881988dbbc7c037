package extract_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitesect"
	"github.com/fwojciec/sitesect/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSite lays out a small mirrored site on disk and returns its tree.
func writeSite(t *testing.T, index string, files map[string]string) *sitesect.SiteTree {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	indexPath := filepath.Join(root, "index.html")
	require.NoError(t, os.WriteFile(indexPath, []byte(index), 0644))

	return &sitesect.SiteTree{
		Host:      "example_com",
		Root:      root,
		Documents: []string{indexPath},
	}
}

func match(tree *sitesect.SiteTree, selector string) *sitesect.MatchResult {
	return &sitesect.MatchResult{
		Selector:     selector,
		Confidence:   0.8,
		Method:       sitesect.MethodVisual,
		DocumentPath: tree.Documents[0],
	}
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("extracts element with dependencies", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, `<html><head>
			<link rel="stylesheet" href="/styles/main.css">
			<link rel="stylesheet" href="theme.css">
			<link rel="stylesheet" href="https://cdn.example.com/ext.css">
			<script src="js/app.js"></script>
		</head><body><div id="hero">Hello there</div></body></html>`,
			map[string]string{
				"styles/main.css": "body { margin: 0; }",
				"theme.css":       ".hero { color: red; }",
				"js/app.js":       "console.log('hi');",
			})

		e := extract.NewExtractor(t.TempDir())

		bundle, err := e.Extract(ctx, tree, match(tree, "#hero"), "hero")

		require.NoError(t, err)
		assert.Equal(t, "hero", bundle.Name)
		assert.Len(t, bundle.CSSFiles, 2)
		assert.Len(t, bundle.JSFiles, 1)

		// Copied dependencies physically exist under the bundle dir.
		for _, f := range append(append([]string{}, bundle.CSSFiles...), bundle.JSFiles...) {
			assert.FileExists(t, f)
			rel, err := filepath.Rel(bundle.Dir, f)
			require.NoError(t, err)
			assert.False(t, filepath.IsAbs(rel))
		}

		content, err := os.ReadFile(bundle.HTMLFile)
		require.NoError(t, err)
		html := string(content)
		assert.Contains(t, html, `<div id="hero">Hello there</div>`)
		assert.Contains(t, html, `href="css/main.css"`)
		assert.Contains(t, html, `href="css/theme.css"`)
		assert.Contains(t, html, `src="js/app.js"`)
		assert.NotContains(t, html, "cdn.example.com")
	})

	t.Run("missing dependency files are silently dropped", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, `<html><head>
			<link rel="stylesheet" href="/gone.css">
		</head><body><div id="a">some content</div></body></html>`, nil)

		e := extract.NewExtractor(t.TempDir())

		bundle, err := e.Extract(ctx, tree, match(tree, "#a"), "a")

		require.NoError(t, err)
		assert.Empty(t, bundle.CSSFiles)
	})

	t.Run("unresolved selector falls through to section class then body", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, `<html><body>
			<div class="promo">promo content</div>
			<p>other content</p>
		</body></html>`, nil)

		e := extract.NewExtractor(t.TempDir())

		t.Run("class lookup", func(t *testing.T) {
			bundle, err := e.Extract(ctx, tree, match(tree, "#does-not-exist"), "promo")

			require.NoError(t, err)
			content, err := os.ReadFile(bundle.HTMLFile)
			require.NoError(t, err)
			assert.Contains(t, string(content), `<div class="promo">promo content</div>`)
		})

		t.Run("body fallback", func(t *testing.T) {
			bundle, err := e.Extract(ctx, tree, match(tree, "#does-not-exist"), "unknown-name")

			require.NoError(t, err)
			content, err := os.ReadFile(bundle.HTMLFile)
			require.NoError(t, err)
			assert.Contains(t, string(content), "promo content")
			assert.Contains(t, string(content), "other content")
		})
	})

	t.Run("id lookup used when class misses", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, `<html><body><div id="signup">sign up here</div><p>filler</p></body></html>`, nil)

		e := extract.NewExtractor(t.TempDir())

		bundle, err := e.Extract(ctx, tree, match(tree, ".nope"), "signup")

		require.NoError(t, err)
		content, err := os.ReadFile(bundle.HTMLFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), `<div id="signup">sign up here</div>`)
	})

	t.Run("empty document fails with section not found", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, ``, nil)

		e := extract.NewExtractor(t.TempDir())

		_, err := e.Extract(ctx, tree, match(tree, "#x"), "nothing")

		require.Error(t, err)
		assert.Equal(t, sitesect.ESECTION, sitesect.ErrorCode(err))
	})

	t.Run("re-extraction overwrites the prior bundle", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, `<html><head>
			<link rel="stylesheet" href="old.css">
		</head><body><div id="hero">v1</div></body></html>`,
			map[string]string{"old.css": ".a{}"})

		dir := t.TempDir()
		e := extract.NewExtractor(dir)

		first, err := e.Extract(ctx, tree, match(tree, "#hero"), "hero")
		require.NoError(t, err)
		require.Len(t, first.CSSFiles, 1)

		// Second version of the page drops the stylesheet.
		require.NoError(t, os.WriteFile(tree.Documents[0],
			[]byte(`<html><body><div id="hero">v2</div></body></html>`), 0644))

		second, err := e.Extract(ctx, tree, match(tree, "#hero"), "hero")
		require.NoError(t, err)

		assert.Equal(t, first.Dir, second.Dir)
		assert.Empty(t, second.CSSFiles)
		assert.NoFileExists(t, first.CSSFiles[0])

		content, err := os.ReadFile(second.HTMLFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "v2")
		assert.NotContains(t, string(content), "v1")
	})

	t.Run("requires section name", func(t *testing.T) {
		t.Parallel()

		tree := writeSite(t, `<html><body><p>x</p></body></html>`, nil)
		e := extract.NewExtractor(t.TempDir())

		_, err := e.Extract(ctx, tree, match(tree, "body"), "")

		assert.Equal(t, sitesect.EINVALID, sitesect.ErrorCode(err))
	})
}
