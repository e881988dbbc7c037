// Package fs provides filesystem-backed storage for acquired site trees and
// uploaded screenshots.
package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/sitesect"
)

// Ensure SiteStore implements sitesect.SiteStore at compile time.
var _ sitesect.SiteStore = (*SiteStore)(nil)

// SiteStore manages acquired site trees as directories keyed by normalized
// host name. Creating a tree for a host destroys any prior tree for the
// same host; callers must serialize concurrent acquisition of one host.
type SiteStore struct {
	baseDir string
}

// NewSiteStore creates a SiteStore rooted at baseDir.
func NewSiteStore(baseDir string) *SiteStore {
	return &SiteStore{baseDir: baseDir}
}

// Create prepares an empty tree directory for host, replacing any existing
// tree, and returns its path.
func (s *SiteStore) Create(host string) (string, error) {
	if host == "" {
		return "", sitesect.Errorf(sitesect.EINVALID, "host required")
	}

	root := filepath.Join(s.baseDir, host)
	if err := os.RemoveAll(root); err != nil {
		return "", sitesect.WrapErrorf(err, sitesect.EINTERNAL, "removing prior tree %q", root)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", sitesect.WrapErrorf(err, sitesect.EINTERNAL, "creating tree %q", root)
	}
	return root, nil
}

// Find returns the tree for a host with its HTML documents listed.
func (s *SiteStore) Find(host string) (*sitesect.SiteTree, error) {
	return s.Open(filepath.Join(s.baseDir, host))
}

// Open returns the tree rooted at an explicit directory.
func (s *SiteStore) Open(root string) (*sitesect.SiteTree, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, sitesect.Errorf(sitesect.ENOTFOUND, "site tree %q not found", root)
	}

	docs, err := listHTML(root)
	if err != nil {
		return nil, err
	}

	return &sitesect.SiteTree{
		Host:      filepath.Base(root),
		Root:      root,
		Documents: docs,
	}, nil
}

// List returns all acquired trees.
func (s *SiteStore) List() ([]*sitesect.SiteTree, error) {
	entries, err := os.ReadDir(s.baseDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "reading %q", s.baseDir)
	}

	var trees []*sitesect.SiteTree
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tree, err := s.Find(entry.Name())
		if err != nil {
			continue
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// listHTML walks a tree collecting its HTML documents in sorted order.
func listHTML(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "walking %q", root)
	}
	sort.Strings(docs)
	return docs, nil
}

// LoadDocuments reads a tree's HTML files into matching candidates.
// Unreadable files are skipped, never fatal.
func LoadDocuments(tree *sitesect.SiteTree) []*sitesect.Document {
	var docs []*sitesect.Document
	for _, path := range tree.Documents {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		docs = append(docs, &sitesect.Document{Path: path, HTML: string(raw)})
	}
	return docs
}
