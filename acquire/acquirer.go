// Package acquire turns URLs into local site trees: a full mirror when the
// mirror tool succeeds, a single-page fetch with page requisites otherwise.
package acquire

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesect"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchTimeout bounds each network call during acquisition.
const DefaultFetchTimeout = 30 * time.Second

// DefaultAssetConcurrency bounds parallel requisite downloads.
const DefaultAssetConcurrency = 4

// Mirrorer mirrors a complete site into a directory.
type Mirrorer interface {
	Mirror(ctx context.Context, rawURL, dir string) error
}

// Ensure Acquirer implements sitesect.Acquirer at compile time.
var _ sitesect.Acquirer = (*Acquirer)(nil)

// Acquirer acquires sites by mirroring first and falling back to a
// single-page fetch. The fallback also downloads the page's same-origin
// CSS/JS requisites so later dependency resolution finds local files.
type Acquirer struct {
	// Sites manages tree directories; required.
	Sites sitesect.SiteStore

	// Mirror is the preferred whole-site acquisition; skipped when nil.
	Mirror Mirrorer

	// Fetcher retrieves single pages and text assets; required.
	Fetcher sitesect.Fetcher

	// Limiter paces requisite downloads per host; optional.
	Limiter *HostLimiter

	// RetryDelays between fallback fetch attempts; defaults to
	// DefaultRetryDelays (3 retries).
	RetryDelays []time.Duration

	// AssetConcurrency bounds parallel requisite downloads; defaults to
	// DefaultAssetConcurrency.
	AssetConcurrency int
}

// Acquire builds a local tree for the URL's host, destroying any prior tree
// for the same host. Concurrent acquisition of one host is unsafe; callers
// serialize.
func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (*sitesect.SiteTree, error) {
	host, err := sitesect.NormalizeHost(rawURL)
	if err != nil {
		return nil, err
	}

	root, err := a.Sites.Create(host)
	if err != nil {
		return nil, err
	}

	var mirrorErr error
	if a.Mirror != nil {
		if mirrorErr = a.Mirror.Mirror(ctx, rawURL, root); mirrorErr == nil {
			return a.Sites.Find(host)
		}
	}

	// Mirror failed or is not configured: recover once with the
	// single-page fallback before surfacing anything to the caller.
	if err := a.fetchSinglePage(ctx, rawURL, root); err != nil {
		if mirrorErr != nil {
			return nil, sitesect.WrapErrorf(mirrorErr, sitesect.EACQUISITION,
				"%s (single-page fallback also failed: %s)",
				sitesect.ErrorMessage(mirrorErr), sitesect.ErrorMessage(err))
		}
		return nil, err
	}

	return a.Sites.Find(host)
}

func (a *Acquirer) fetchSinglePage(ctx context.Context, rawURL, root string) error {
	delays := a.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	html, err := FetchWithRetryDelays(ctx, rawURL, a.Fetcher.Fetch, delays)
	if err != nil {
		return ClassifyAcquisition(err.Error())
	}

	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte(html), 0644); err != nil {
		return sitesect.WrapErrorf(err, sitesect.EINTERNAL, "writing index.html under %q", root)
	}

	a.fetchRequisites(ctx, rawURL, root, html)
	return nil
}

// fetchRequisites downloads the page's local CSS/JS references so the tree
// is self-contained, mirroring wget's --page-requisites behavior for the
// fallback path. Failures are best-effort: a missing asset is simply absent
// from the tree.
func (a *Acquirer) fetchRequisites(ctx context.Context, rawURL, root, html string) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	refs := collectLocalRefs(doc)
	if len(refs) == 0 {
		return
	}

	concurrency := a.AssetConcurrency
	if concurrency <= 0 {
		concurrency = DefaultAssetConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, ref := range refs {
		g.Go(func() error {
			if a.Limiter != nil {
				if err := a.Limiter.Wait(gctx, base.Host); err != nil {
					return nil
				}
			}

			target := base.ResolveReference(&url.URL{Path: ref})
			content, err := a.Fetcher.Fetch(gctx, target.String())
			if err != nil {
				return nil
			}

			local := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
			if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
				return nil
			}
			_ = os.WriteFile(local, []byte(content), 0644)
			return nil
		})
	}
	_ = g.Wait()
}

// collectLocalRefs returns the page's local stylesheet and script paths,
// deduplicated. External URLs are never followed.
func collectLocalRefs(doc *goquery.Document) []string {
	var refs []string
	seen := make(map[string]bool)

	add := func(ref string) {
		if ref == "" || strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, "//") {
			return
		}
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			ref = ref[:i]
		}
		ref = path.Clean(ref)
		if ref == "" || ref == "." || strings.HasPrefix(ref, "..") {
			return
		}
		if seen[ref] {
			return
		}
		seen[ref] = true
		refs = append(refs, ref)
	}

	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		add(href)
	})
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add(src)
	})

	return refs
}

// ClassifyAcquisition turns tool or network error detail into an
// EACQUISITION error whose message names the causing condition so users can
// act on it.
func ClassifyAcquisition(detail string) *sitesect.Error {
	switch {
	case strings.Contains(detail, "403 Forbidden") || strings.Contains(detail, "HTTP 403"):
		return sitesect.Errorf(sitesect.EACQUISITION,
			"website blocked the request (403 Forbidden); it may have anti-bot protection: %s", detail)
	case strings.Contains(detail, "404 Not Found") || strings.Contains(detail, "HTTP 404"):
		return sitesect.Errorf(sitesect.EACQUISITION,
			"website not found (404); check the URL and try again: %s", detail)
	case strings.Contains(detail, "connection refused") || strings.Contains(detail, "Connection refused"):
		return sitesect.Errorf(sitesect.EACQUISITION,
			"connection refused; the website may be down or blocking requests: %s", detail)
	default:
		return sitesect.Errorf(sitesect.EACQUISITION, "could not acquire website: %s", detail)
	}
}
