// Package gemini implements vision-based section scoring, section name
// suggestion and screenshot description using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/sitesect"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// MaxPromptHTML bounds how much document HTML is sent with a scoring
// request.
const MaxPromptHTML = 4000

// ScrapedConfidence is assigned when the model's reply is free text and only
// a selector token could be scraped out of it.
const ScrapedConfidence = 0.7

// requestTimeout bounds each API call; attempts spaces the built-in retry.
const requestTimeout = 30 * time.Second

// retryDelays matches the acquisition backoff: 3 retries at 1s, 2s, 4s.
var retryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Ensure Scorer implements the vision interfaces at compile time.
var (
	_ sitesect.VisionScorer = (*Scorer)(nil)
	_ sitesect.Suggester    = (*Scorer)(nil)
)

// Scorer scores screenshot/document pairs and suggests section names using
// Gemini's multimodal API.
type Scorer struct {
	client *genai.Client
}

// NewScorer creates a new Scorer.
func NewScorer(client *genai.Client) *Scorer {
	return &Scorer{client: client}
}

// ScoreSection asks the model which element of html the screenshot depicts.
// Free-text replies degrade to a scraped selector at ScrapedConfidence;
// replies with no usable selector are an error the caller treats as a
// missing strategy, never fatal.
func (s *Scorer) ScoreSection(ctx context.Context, shot *sitesect.Screenshot, html string, sectionName string) (*sitesect.VisionResult, error) {
	text, err := s.generate(ctx, shot, BuildScorePrompt(html, sectionName))
	if err != nil {
		return nil, err
	}

	result := ParseScoreResponse(text)
	if result == nil {
		return nil, sitesect.Errorf(sitesect.EUNAVAILABLE, "vision reply contained no usable selector")
	}
	return result, nil
}

// SuggestNames proposes semantic section names for the screenshot. A reply
// that cannot be parsed falls back to generic names rather than failing.
func (s *Scorer) SuggestNames(ctx context.Context, shot *sitesect.Screenshot) ([]string, error) {
	text, err := s.generate(ctx, shot, BuildSuggestPrompt())
	if err != nil {
		return nil, err
	}
	return ParseSuggestions(text), nil
}

// Describe returns a short textual description of the screenshot's visible
// content, suitable as a matching signature.
func (s *Scorer) Describe(ctx context.Context, shot *sitesect.Screenshot) (string, error) {
	text, err := s.generate(ctx, shot,
		"Describe the visible text content of this website section screenshot in one short paragraph. "+
			"Quote the headings and prominent text verbatim where possible.")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Signature adapts Describe into a sitesect.SignatureFunc with the package's
// timeout built in.
func (s *Scorer) Signature() sitesect.SignatureFunc {
	return func(shot *sitesect.Screenshot) (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return s.Describe(ctx, shot)
	}
}

// generate sends one multimodal request, retrying transient failures.
func (s *Scorer) generate(ctx context.Context, shot *sitesect.Screenshot, prompt string) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", sitesect.Errorf(sitesect.EINVALID, "screenshot data required")
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType(shot), Data: shot.Data}},
			{Text: prompt},
		},
	}}
	config := BuildConfig()

	var lastErr error
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		rctx, cancel := context.WithTimeout(ctx, requestTimeout)
		result, err := s.client.Models.GenerateContent(rctx, model, contents, config)
		cancel()
		if err == nil {
			if result == nil {
				return "", sitesect.Errorf(sitesect.EINTERNAL, "gemini returned nil result")
			}
			return result.Text(), nil
		}
		lastErr = err

		if attempt >= len(retryDelays) {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
	}

	return "", sitesect.WrapErrorf(lastErr, sitesect.EUNAVAILABLE, "gemini request failed")
}

func mimeType(shot *sitesect.Screenshot) string {
	switch shot.Format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an expert front-end engineer identifying which part of an HTML document a screenshot shows. Be precise and answer in the requested format only.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildScorePrompt builds the scoring prompt for a document and optional
// section name hint.
func BuildScorePrompt(html, sectionName string) string {
	var sb strings.Builder
	sb.WriteString("Look at the attached screenshot of a website section")
	if sectionName != "" {
		fmt.Fprintf(&sb, " (the user calls it %q)", sectionName)
	}
	sb.WriteString(" and the HTML document below. Identify the element the screenshot depicts.\n\n")
	sb.WriteString("<html_document>\n")
	sb.WriteString(TruncateHTML(html, MaxPromptHTML))
	sb.WriteString("\n</html_document>\n\n")
	sb.WriteString(`Respond with JSON only: {"selector": "<css selector>", "confidence": <0..1>, "reasoning": "<one sentence>"}`)
	return sb.String()
}

// BuildSuggestPrompt builds the section name suggestion prompt.
func BuildSuggestPrompt() string {
	return "Look at the attached screenshot of a website section and suggest 3-5 short semantic names for it " +
		`(like "header", "hero", "pricing", "footer"), ordered by relevance. ` +
		`Respond with a JSON array of strings only, for example ["hero", "banner"].`
}

// TruncateHTML caps HTML at max bytes for prompting, dropping any partial
// trailing rune.
func TruncateHTML(html string, max int) string {
	if len(html) <= max {
		return html
	}
	return strings.ToValidUTF8(html[:max], "")
}

// jsonObject finds the first {...} block in free text; models often wrap
// JSON in prose or code fences.
var jsonObject = regexp.MustCompile(`(?s)\{.*?\}`)

// jsonArray finds the first [...] block in free text.
var jsonArray = regexp.MustCompile(`(?s)\[.*?\]`)

// selectorToken scrapes a CSS id/class token out of free text.
var selectorToken = regexp.MustCompile(`[.#][a-zA-Z][a-zA-Z0-9_-]*`)

// ParseScoreResponse extracts a VisionResult from a model reply. It prefers
// the structured JSON form and degrades to scraping a selector token from
// free text. Returns nil when no selector is found either way.
func ParseScoreResponse(text string) *sitesect.VisionResult {
	if raw := jsonObject.FindString(text); raw != "" {
		var parsed struct {
			Selector   string  `json:"selector"`
			Confidence float64 `json:"confidence"`
			Reasoning  string  `json:"reasoning"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed.Selector != "" {
			return &sitesect.VisionResult{
				Selector:   parsed.Selector,
				Confidence: clamp01(parsed.Confidence),
				Rationale:  parsed.Reasoning,
				Structured: true,
			}
		}
	}

	if token := selectorToken.FindString(text); token != "" {
		return &sitesect.VisionResult{
			Selector:   token,
			Confidence: ScrapedConfidence,
			Rationale:  "selector scraped from unstructured reply",
		}
	}

	return nil
}

// DefaultSuggestions is returned when the model's reply cannot be parsed.
var DefaultSuggestions = []string{"header", "content", "section"}

// ParseSuggestions extracts section names from a model reply, falling back
// to DefaultSuggestions when nothing parses.
func ParseSuggestions(text string) []string {
	raw := jsonArray.FindString(text)
	if raw == "" {
		return DefaultSuggestions
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return DefaultSuggestions
	}

	var out []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return DefaultSuggestions
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
