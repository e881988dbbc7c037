package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitesect"
	"github.com/fwojciec/sitesect/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundle(t *testing.T) {
	t.Parallel()

	t.Run("reconstructs an extracted bundle", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		dir := filepath.Join(base, "header")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0755))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "section.html"), []byte("<div></div>"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "a.css"), []byte("a{}"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "b.js"), []byte("b()"), 0644))

		bundle, err := extract.LoadBundle(base, "header")

		require.NoError(t, err)
		assert.Equal(t, "header", bundle.Name)
		assert.Equal(t, filepath.Join(dir, "section.html"), bundle.HTMLFile)
		assert.Equal(t, []string{filepath.Join(dir, "css", "a.css")}, bundle.CSSFiles)
		assert.Equal(t, []string{filepath.Join(dir, "js", "b.js")}, bundle.JSFiles)
	})

	t.Run("unknown name returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := extract.LoadBundle(t.TempDir(), "nope")

		assert.Equal(t, sitesect.ENOTFOUND, sitesect.ErrorCode(err))
	})
}

func TestListBundles(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	for _, name := range []string{"footer", "header"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, name), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(base, "stray.txt"), []byte("x"), 0644))

	bundles, err := extract.ListBundles(base)

	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "footer", bundles[0].Name)
	assert.Equal(t, "header", bundles[1].Name)
}
