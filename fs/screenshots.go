package fs

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for screenshot dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitesect"
)

var screenshotExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// Ensure ScreenshotStore implements sitesect.ScreenshotStore at compile time.
var _ sitesect.ScreenshotStore = (*ScreenshotStore)(nil)

// ScreenshotStore persists uploaded screenshots in a flat directory.
type ScreenshotStore struct {
	dir string
}

// NewScreenshotStore creates a ScreenshotStore writing to dir.
func NewScreenshotStore(dir string) *ScreenshotStore {
	return &ScreenshotStore{dir: dir}
}

// Save writes image bytes under a sanitized filename. Same-name uploads
// overwrite.
func (s *ScreenshotStore) Save(filename string, data []byte) (*sitesect.Screenshot, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return nil, sitesect.Errorf(sitesect.EINVALID, "screenshot filename %q is empty after sanitizing", filename)
	}
	if len(data) == 0 {
		return nil, sitesect.Errorf(sitesect.EINVALID, "screenshot data required")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "creating %q", s.dir)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "writing %q", path)
	}

	return describe(path, data), nil
}

// Load reads a previously stored screenshot.
func (s *ScreenshotStore) Load(path string) (*sitesect.Screenshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sitesect.Errorf(sitesect.ENOTFOUND, "screenshot %q not found", path)
	}
	return describe(path, data), nil
}

// List returns stored screenshots without their image data.
func (s *ScreenshotStore) List() ([]*sitesect.Screenshot, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "reading %q", s.dir)
	}

	var shots []*sitesect.Screenshot
	for _, entry := range entries {
		if entry.IsDir() || !screenshotExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		shot := describe(path, data)
		shot.Data = nil
		shots = append(shots, shot)
	}
	return shots, nil
}

// describe fills in decoded metadata and the content fingerprint. Bytes that
// fail to decode still produce a usable screenshot with zero dimensions.
func describe(path string, data []byte) *sitesect.Screenshot {
	shot := &sitesect.Screenshot{
		Path:        path,
		Data:        data,
		Fingerprint: fmt.Sprintf("%016x", xxhash.Sum64(data)),
	}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		shot.Format = format
		shot.Width = cfg.Width
		shot.Height = cfg.Height
	}
	return shot
}

// sanitizeFilename reduces an upload name to a safe flat filename: path
// separators stripped, anything outside [A-Za-z0-9._-] replaced, leading
// dots removed.
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.TrimLeft(b.String(), ".")
}
