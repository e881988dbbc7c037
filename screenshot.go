package sitesect

// Screenshot is a read-only image input to section matching.
type Screenshot struct {
	// Path is the screenshot's location on disk, empty for in-memory inputs.
	Path string `json:"path"`

	// Data is the raw encoded image bytes.
	Data []byte `json:"-"`

	// Format is the decoded image format ("png", "jpeg", ...), empty if
	// the bytes could not be decoded.
	Format string `json:"format,omitempty"`

	// Width and Height are the decoded pixel dimensions, zero if unknown.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Fingerprint is a content hash used for listings and dedup display.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// SignatureFunc derives a textual signature from a screenshot. The matching
// strategies compare this signature against document text, so the function
// must be deterministic for a given screenshot. Implementations range from
// a fixed stub to a vision model describing the image.
type SignatureFunc func(shot *Screenshot) (string, error)

// FixedSignature returns a SignatureFunc that always produces text.
// Useful in tests and as a CLI escape hatch when no OCR capability is wired.
func FixedSignature(text string) SignatureFunc {
	return func(*Screenshot) (string, error) {
		return text, nil
	}
}

// ScreenshotStore persists uploaded screenshots.
type ScreenshotStore interface {
	// Save writes image bytes under a sanitized filename and returns the
	// stored screenshot with decoded metadata.
	Save(filename string, data []byte) (*Screenshot, error)

	// Load reads a previously stored screenshot.
	// Returns ENOTFOUND if it does not exist.
	Load(path string) (*Screenshot, error)

	// List returns all stored screenshots without their data.
	List() ([]*Screenshot, error)
}
