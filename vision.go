package sitesect

import "context"

// VisionResult is an external scorer's suggestion for a section.
type VisionResult struct {
	// Selector is the suggested CSS selector.
	Selector string

	// Confidence is the scorer's own confidence when Structured, or a
	// fixed value assigned by the caller's parsing rules otherwise.
	Confidence float64

	// Rationale is the scorer's explanation, if any.
	Rationale string

	// Structured reports whether the scorer returned a parseable structured
	// result, as opposed to a selector token scraped from free text.
	Structured bool
}

// VisionScorer is an optional external capability that, given an image and
// HTML text, suggests a selector with a confidence. The Matcher treats it as
// one scoring strategy among several and degrades gracefully when it is
// unavailable or errors.
type VisionScorer interface {
	// ScoreSection suggests a selector for the section the image depicts
	// within html. sectionName is a caller hint and may be empty.
	ScoreSection(ctx context.Context, shot *Screenshot, html string, sectionName string) (*VisionResult, error)
}

// Suggester proposes semantic section names for a screenshot.
type Suggester interface {
	// SuggestNames returns 3-5 candidate section names ordered by relevance.
	SuggestNames(ctx context.Context, shot *Screenshot) ([]string, error)
}
