// Package goquery implements section matching over parsed HTML documents.
package goquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesect"
)

// Default thresholds and constants for the matching strategies. These are
// empirical values carried over from production use; they are exposed as
// Matcher fields rather than re-derived.
const (
	DefaultVisualThreshold     = 0.3
	DefaultTextThreshold       = 0.2
	DefaultStructureConfidence = 0.5
	DefaultFallbackConfidence  = 0.1
	DefaultMinContainerText    = 10
)

// structureSelectors is the fixed priority list of generic section
// containers scanned by the structural strategy.
var structureSelectors = []string{
	"main",
	"section",
	"article",
	".container",
	".content",
	".main-content",
	"#content",
	"#main",
}

// Ensure Matcher implements sitesect.Matcher at compile time.
var _ sitesect.Matcher = (*Matcher)(nil)

// Matcher scores candidate documents against a screenshot using an ordered
// set of independent strategies and keeps the highest-confidence result.
// Ties on confidence are broken by strategy priority: visual > text >
// structure > external > fallback.
type Matcher struct {
	// Signature derives text from a screenshot for the visual and text
	// strategies. When nil (or erroring), those strategies contribute
	// no candidates.
	Signature sitesect.SignatureFunc

	// Vision is the optional external scorer. When nil, unavailable, or
	// erroring, the external strategy contributes no candidate.
	Vision sitesect.VisionScorer

	// Strategy thresholds; zero values are replaced by the defaults above.
	VisualThreshold     float64
	TextThreshold       float64
	StructureConfidence float64
	FallbackConfidence  float64
	MinContainerText    int
}

// NewMatcher creates a Matcher with default thresholds.
func NewMatcher(signature sitesect.SignatureFunc, vision sitesect.VisionScorer) *Matcher {
	return &Matcher{
		Signature:           signature,
		Vision:              vision,
		VisualThreshold:     DefaultVisualThreshold,
		TextThreshold:       DefaultTextThreshold,
		StructureConfidence: DefaultStructureConfidence,
		FallbackConfidence:  DefaultFallbackConfidence,
		MinContainerText:    DefaultMinContainerText,
	}
}

// Match returns the best match across all documents and strategies. The
// caller-proposed section name is passed through to the external scorer's
// prompt; it never affects the local strategies.
func (m *Matcher) Match(ctx context.Context, shot *sitesect.Screenshot, docs []*sitesect.Document, sectionName string) (*sitesect.MatchResult, error) {
	if len(docs) == 0 {
		return nil, sitesect.Errorf(sitesect.ENODOCUMENTS, "no candidate documents to match against")
	}

	// The signature is computed once per call. A failing signature function
	// disables the signature-based strategies, nothing more.
	var signature string
	if m.Signature != nil {
		if sig, err := m.Signature(shot); err == nil {
			signature = sig
		}
	}

	var best *sitesect.MatchResult
	for _, doc := range docs {
		parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
		if err != nil {
			// A document that fails to parse is skipped, never fatal.
			continue
		}

		for _, result := range []*sitesect.MatchResult{
			m.visualStrategy(signature, parsed, doc.Path),
			m.textStrategy(signature, parsed, doc.Path),
			m.structureStrategy(parsed, doc.Path),
			m.externalStrategy(ctx, shot, doc, sectionName),
			m.fallbackStrategy(parsed, doc.Path),
		} {
			if result != nil && better(result, best) {
				best = result
			}
		}
	}

	if best == nil {
		// Only reachable if every document failed to parse.
		return nil, sitesect.Errorf(sitesect.ENODOCUMENTS, "no candidate document could be parsed")
	}
	return best, nil
}

// better reports whether candidate should replace best: strictly higher
// confidence wins, exact ties fall to strategy priority, and earlier
// documents win among full ties.
func better(candidate, best *sitesect.MatchResult) bool {
	if best == nil {
		return true
	}
	if candidate.Confidence != best.Confidence {
		return candidate.Confidence > best.Confidence
	}
	return candidate.Method.Rank() < best.Method.Rank()
}

// visualStrategy scans block-level containers for the one whose text is most
// similar to the screenshot signature. Accepted only above VisualThreshold.
func (m *Matcher) visualStrategy(signature string, doc *goquery.Document, path string) *sitesect.MatchResult {
	if signature == "" {
		return nil
	}

	threshold := m.VisualThreshold
	if threshold == 0 {
		threshold = DefaultVisualThreshold
	}
	minText := m.MinContainerText
	if minText == 0 {
		minText = DefaultMinContainerText
	}

	var bestSel *goquery.Selection
	var bestScore float64
	var qualifying int

	doc.Find("div, section, article, main").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= minText {
			return
		}
		score := sitesect.WordSimilarity(signature, text)
		if score <= threshold {
			return
		}
		qualifying++
		if score > bestScore {
			bestScore = score
			bestSel = sel
		}
	})

	if bestSel == nil {
		return nil
	}

	return &sitesect.MatchResult{
		Selector:     deriveSelector(bestSel),
		Confidence:   bestScore,
		Method:       sitesect.MethodVisual,
		Rationale:    fmt.Sprintf("%d container(s) matched the screenshot text above %.2f", qualifying, threshold),
		MatchedText:  excerpt(strings.TrimSpace(bestSel.Text()), 100),
		DocumentPath: path,
	}
}

// textStrategy compares the signature against the whole document's visible
// text. The selector is always the document root.
func (m *Matcher) textStrategy(signature string, doc *goquery.Document, path string) *sitesect.MatchResult {
	if signature == "" {
		return nil
	}

	threshold := m.TextThreshold
	if threshold == 0 {
		threshold = DefaultTextThreshold
	}

	score := sitesect.WordSimilarity(signature, doc.Text())
	if score <= threshold {
		return nil
	}

	return &sitesect.MatchResult{
		Selector:     "body",
		Confidence:   score,
		Method:       sitesect.MethodText,
		Rationale:    fmt.Sprintf("document text similarity %.2f", score),
		MatchedText:  excerpt(strings.TrimSpace(doc.Text()), 100),
		DocumentPath: path,
	}
}

// structureStrategy returns the first generic container present in the
// document, at a fixed confidence.
func (m *Matcher) structureStrategy(doc *goquery.Document, path string) *sitesect.MatchResult {
	confidence := m.StructureConfidence
	if confidence == 0 {
		confidence = DefaultStructureConfidence
	}

	for _, selector := range structureSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		return &sitesect.MatchResult{
			Selector:     selector,
			Confidence:   confidence,
			Method:       sitesect.MethodStructure,
			Rationale:    fmt.Sprintf("found generic container %q", selector),
			MatchedText:  excerpt(strings.TrimSpace(sel.First().Text()), 100),
			DocumentPath: path,
		}
	}
	return nil
}

// externalStrategy delegates to the vision scorer. Errors and nil results
// mean the strategy contributed nothing.
func (m *Matcher) externalStrategy(ctx context.Context, shot *sitesect.Screenshot, doc *sitesect.Document, hint string) *sitesect.MatchResult {
	if m.Vision == nil {
		return nil
	}

	res, err := m.Vision.ScoreSection(ctx, shot, doc.HTML, hint)
	if err != nil || res == nil || res.Selector == "" {
		return nil
	}

	confidence := res.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	rationale := res.Rationale
	if rationale == "" {
		rationale = "external vision scorer"
	}

	return &sitesect.MatchResult{
		Selector:     res.Selector,
		Confidence:   confidence,
		Method:       sitesect.MethodExternal,
		Rationale:    rationale,
		DocumentPath: doc.Path,
	}
}

// fallbackStrategy guarantees a result for any parseable document.
func (m *Matcher) fallbackStrategy(doc *goquery.Document, path string) *sitesect.MatchResult {
	confidence := m.FallbackConfidence
	if confidence == 0 {
		confidence = DefaultFallbackConfidence
	}

	selector := "body"
	if doc.Find("body").Length() == 0 {
		selector = ""
		for _, s := range append([]string{"main"}, structureSelectors...) {
			if doc.Find(s).Length() > 0 {
				selector = s
				break
			}
		}
		if selector == "" {
			selector = "body"
		}
	}

	return &sitesect.MatchResult{
		Selector:     selector,
		Confidence:   confidence,
		Method:       sitesect.MethodFallback,
		Rationale:    "no strategy produced a confident match, using fallback",
		DocumentPath: path,
	}
}

// deriveSelector builds a CSS selector for an element: #id when present,
// else all classes dot-joined, else the bare tag name.
func deriveSelector(sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		return "#" + id
	}
	if class, ok := sel.Attr("class"); ok && strings.TrimSpace(class) != "" {
		return "." + strings.Join(strings.Fields(class), ".")
	}
	return goquery.NodeName(sel)
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
