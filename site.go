package sitesect

import (
	"context"
	"net/url"
	"strings"
)

// SiteTree represents an acquired website: a local directory of HTML, CSS,
// JS and image files. Trees are keyed by normalized host name; re-acquiring
// the same host destroys and replaces the prior tree. Immutable once
// acquired.
type SiteTree struct {
	// Host is the normalized host key (see NormalizeHost).
	Host string `json:"host"`

	// Root is the filesystem path containing the mirrored files.
	Root string `json:"root"`

	// Documents are the HTML files found under Root, relative-path ordered.
	Documents []string `json:"documents"`
}

// Document is one candidate HTML document drawn from a site tree.
type Document struct {
	// Path is the document's path on disk.
	Path string

	// HTML is the raw document content.
	HTML string
}

// NormalizeHost converts a URL's host into a filesystem-safe site key.
// Example: https://www.example.com/about → www_example_com
func NormalizeHost(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	return strings.ReplaceAll(strings.ToLower(host), ".", "_"), nil
}

// Acquirer turns a URL into a local site tree.
// Implementations hide the mirror-tool vs single-page-fetch selection and
// the destructive replacement of a previously acquired tree for the same
// host. Concurrent acquisition of the same host is unsafe and must be
// serialized by the caller.
type Acquirer interface {
	Acquire(ctx context.Context, rawURL string) (*SiteTree, error)
}

// SiteStore manages acquired site trees on disk.
type SiteStore interface {
	// Create prepares an empty tree directory for a host, destroying any
	// existing tree for the same host.
	Create(host string) (string, error)

	// Find returns the tree for a host with its HTML documents listed.
	// Returns ENOTFOUND if no tree exists.
	Find(host string) (*SiteTree, error)

	// Open returns the tree rooted at an explicit directory.
	// Returns ENOTFOUND if the directory does not exist.
	Open(root string) (*SiteTree, error)

	// List returns all acquired trees.
	List() ([]*SiteTree, error)
}

// Fetcher retrieves HTML from a URL. Implementations may use plain HTTP or
// browser automation for JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
