// Package rod provides a browser-backed fetcher for JavaScript-rendered
// pages, with page screenshot capture.
package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/sitesect"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Viewport used for rendering and screenshots.
const (
	ViewportWidth  = 1920
	ViewportHeight = 1080
)

// Ensure Fetcher implements sitesect.Fetcher at compile time.
var _ sitesect.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser *rod.Browser
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher() (*Fetcher, error) {
	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Fetcher{browser: browser}, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := f.openPage(ctx, url)
	if err != nil {
		return "", err
	}
	defer page.Close()

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	return html, nil
}

// CaptureScreenshot navigates to the URL and returns a full-page PNG of the
// rendered result, for use as matching input when the user has no screenshot
// of their own.
func (f *Fetcher) CaptureScreenshot(ctx context.Context, url string) ([]byte, error) {
	page, err := f.openPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// openPage creates a page at the standard viewport, navigates and waits for
// load. The caller closes the page.
func (f *Fetcher) openPage(ctx context.Context, url string) (*rod.Page, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  ViewportWidth,
		Height: ViewportHeight,
	}); err != nil {
		page.Close()
		return nil, err
	}

	if err := page.Navigate(url); err != nil {
		page.Close()
		return nil, err
	}

	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, err
	}

	return page, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}
