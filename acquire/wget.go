package acquire

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"time"
)

// DefaultUserAgent is sent with mirror requests so ordinary sites treat the
// mirror like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Ensure Wget implements Mirrorer at compile time.
var _ Mirrorer = (*Wget)(nil)

// Wget mirrors sites by shelling out to wget with page requisites and link
// conversion enabled, producing a browsable offline copy.
type Wget struct {
	// Timeout per network operation; defaults to DefaultFetchTimeout.
	Timeout time.Duration

	// Tries per file; defaults to 3.
	Tries int

	// UserAgent sent with requests; defaults to DefaultUserAgent.
	UserAgent string
}

// Mirror downloads rawURL and everything needed to render it into dir.
// Failures are classified by their wget output so callers can tell a blocked
// site from a missing one.
func (w *Wget) Mirror(ctx context.Context, rawURL, dir string) error {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	tries := w.Tries
	if tries <= 0 {
		tries = 3
	}
	agent := w.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}

	args := []string{
		"--mirror",
		"--convert-links",
		"--adjust-extension",
		"--page-requisites",
		"--no-parent",
		"--timeout=" + strconv.Itoa(int(timeout.Seconds())),
		"--tries=" + strconv.Itoa(tries),
		"--user-agent=" + agent,
		"--directory-prefix=" + dir,
		"--no-host-directories",
		rawURL,
	}

	cmd := exec.CommandContext(ctx, "wget", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := stderr.String()
		if detail == "" {
			detail = err.Error()
		}
		return ClassifyAcquisition(detail)
	}
	return nil
}
