package extract

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/sitesect"
)

// LoadBundle reconstructs a previously extracted bundle from its directory
// under baseDir. Returns ENOTFOUND when no bundle exists for the name.
func LoadBundle(baseDir, name string) (*sitesect.SectionBundle, error) {
	if name == "" {
		return nil, sitesect.Errorf(sitesect.EINVALID, "section name required")
	}

	dir := filepath.Join(baseDir, name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, sitesect.Errorf(sitesect.ENOTFOUND, "no extracted section named %q", name)
	}

	bundle := &sitesect.SectionBundle{
		Name: name,
		Dir:  dir,
	}

	htmlFile := filepath.Join(dir, "section.html")
	if _, err := os.Stat(htmlFile); err == nil {
		bundle.HTMLFile = htmlFile
	}

	var err error
	if bundle.CSSFiles, err = listFiles(filepath.Join(dir, "css"), ".css"); err != nil {
		return nil, err
	}
	if bundle.JSFiles, err = listFiles(filepath.Join(dir, "js"), ".js"); err != nil {
		return nil, err
	}

	return bundle, nil
}

// ListBundles returns all bundles stored under baseDir, sorted by name.
func ListBundles(baseDir string) ([]*sitesect.SectionBundle, error) {
	entries, err := os.ReadDir(baseDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "reading %q", baseDir)
	}

	var bundles []*sitesect.SectionBundle
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bundle, err := LoadBundle(baseDir, entry.Name())
		if err != nil {
			continue
		}
		bundles = append(bundles, bundle)
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, nil
}

func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "reading %q", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
