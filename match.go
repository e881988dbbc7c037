package sitesect

import "context"

// MatchMethod identifies which strategy produced a MatchResult.
type MatchMethod string

// Match methods in strategy priority order. When two strategies produce the
// same confidence, the earlier method in this order wins.
const (
	MethodVisual    MatchMethod = "visual"
	MethodText      MatchMethod = "text"
	MethodStructure MatchMethod = "structure"
	MethodExternal  MatchMethod = "external"
	MethodFallback  MatchMethod = "fallback"
)

// methodRank orders methods for tie-breaking; lower is higher priority.
var methodRank = map[MatchMethod]int{
	MethodVisual:    0,
	MethodText:      1,
	MethodStructure: 2,
	MethodExternal:  3,
	MethodFallback:  4,
}

// Rank returns the method's tie-break priority (lower wins). Unknown
// methods rank below all known ones.
func (m MatchMethod) Rank() int {
	if r, ok := methodRank[m]; ok {
		return r
	}
	return len(methodRank)
}

// MatchResult describes the DOM subtree a screenshot most likely depicts.
// The selector is advisory: the Extractor re-resolves it against the source
// document and has its own fallback chain.
type MatchResult struct {
	// Selector is a CSS selector for the matched element.
	Selector string `json:"selector"`

	// Confidence is in [0,1]; the maximum confidence produced by any
	// strategy tried for the (screenshot, document) pair.
	Confidence float64 `json:"confidence"`

	// Method is the strategy that produced this result.
	Method MatchMethod `json:"method"`

	// Rationale explains how the match was found, in plain text.
	Rationale string `json:"rationale"`

	// MatchedText is an excerpt of the matched element's text content.
	MatchedText string `json:"matchedText,omitempty"`

	// DocumentPath is the owning HTML document's path.
	DocumentPath string `json:"documentPath"`
}

// Validate returns an error if the result contains invalid fields.
func (r *MatchResult) Validate() error {
	if r.Selector == "" {
		return Errorf(EINVALID, "match result selector required")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return Errorf(EINVALID, "match result confidence %v outside [0,1]", r.Confidence)
	}
	if _, ok := methodRank[r.Method]; !ok {
		return Errorf(EINVALID, "unknown match method %q", r.Method)
	}
	return nil
}

// Matcher scores candidate documents against a screenshot and returns the
// best match. Per-document and per-strategy failures are swallowed: a
// failing document contributes no candidate and is never fatal. With at
// least one parseable document a Matcher always returns a result, because
// the fallback strategy always succeeds.
type Matcher interface {
	// Match returns the highest-confidence result across all documents and
	// strategies. sectionName is the caller's proposed name for the
	// section; it is forwarded to scorers that can use it and may be
	// empty. Returns ENODOCUMENTS if docs is empty.
	Match(ctx context.Context, shot *Screenshot, docs []*Document, sectionName string) (*MatchResult, error)
}
