package goquery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/sitesect"
	gq "github.com/fwojciec/sitesect/goquery"
	"github.com/fwojciec/sitesect/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(path, html string) *sitesect.Document {
	return &sitesect.Document{Path: path, HTML: html}
}

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	shot := &sitesect.Screenshot{Path: "shot.png"}

	t.Run("returns ENODOCUMENTS for empty input", func(t *testing.T) {
		t.Parallel()

		m := gq.NewMatcher(nil, nil)

		_, err := m.Match(context.Background(), shot, nil, "")

		require.Error(t, err)
		assert.Equal(t, sitesect.ENODOCUMENTS, sitesect.ErrorCode(err))
	})

	t.Run("never errors with one parseable document", func(t *testing.T) {
		t.Parallel()

		m := gq.NewMatcher(nil, nil)
		html := `<html><body><p>nothing recognizable</p></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, sitesect.MethodFallback, got.Method)
		assert.Equal(t, "body", got.Selector)
		assert.InDelta(t, 0.1, got.Confidence, 1e-9)
	})

	t.Run("visual strategy selects the most similar container", func(t *testing.T) {
		t.Parallel()

		m := gq.NewMatcher(sitesect.FixedSignature("welcome to the site everyone"), nil)
		html := `<html><body>
			<div id="header">welcome to the site everyone</div>
			<div id="footer">copyright 2024 example corp legal notice</div>
		</body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, "#header", got.Selector)
		assert.Equal(t, sitesect.MethodVisual, got.Method)
		assert.Greater(t, got.Confidence, 0.3)
		assert.Contains(t, got.MatchedText, "welcome")
	})

	t.Run("selects header not footer for header screenshot", func(t *testing.T) {
		t.Parallel()

		m := gq.NewMatcher(sitesect.FixedSignature("welcome welcome welcome"), nil)
		html := `<html><body>
			<div class="site-header">welcome welcome welcome</div>
			<div class="site-footer">copyright 2024 all rights reserved</div>
		</body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, ".site-header", got.Selector)
		assert.Greater(t, got.Confidence, 0.3)
		assert.Contains(t, []sitesect.MatchMethod{sitesect.MethodVisual, sitesect.MethodText}, got.Method)
	})

	t.Run("text strategy matches whole document at body", func(t *testing.T) {
		t.Parallel()

		// No single container qualifies (short texts), but the whole
		// document overlaps the signature.
		m := gq.NewMatcher(sitesect.FixedSignature("pricing plans"), nil)
		html := `<html><body><span>pricing</span> <span>plans</span></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, "body", got.Selector)
		assert.Equal(t, sitesect.MethodText, got.Method)
		assert.Greater(t, got.Confidence, 0.2)
	})

	t.Run("structure strategy finds first generic container", func(t *testing.T) {
		t.Parallel()

		m := gq.NewMatcher(nil, nil)
		html := `<html><body>
			<div class="container">stuff</div>
			<section>more stuff</section>
		</body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, "section", got.Selector)
		assert.Equal(t, sitesect.MethodStructure, got.Method)
		assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	})

	t.Run("exact confidence tie resolved by strategy priority", func(t *testing.T) {
		t.Parallel()

		// Visual similarity is exactly 0.5 ({alpha} vs {alpha, betas}),
		// matching the structural strategy's fixed 0.5. Visual must win.
		m := gq.NewMatcher(sitesect.FixedSignature("alpha"), nil)
		html := `<html><body>
			<main>unrelated words entirely</main>
			<div class="hero">alpha betas</div>
		</body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.InDelta(t, 0.5, got.Confidence, 1e-9)
		assert.Equal(t, sitesect.MethodVisual, got.Method)
		assert.Equal(t, ".hero", got.Selector)
	})

	t.Run("higher confidence beats higher priority", func(t *testing.T) {
		t.Parallel()

		// Visual qualifies at 1/3 but the structural strategy's fixed 0.5
		// is higher; the highest confidence overall wins.
		m := gq.NewMatcher(sitesect.FixedSignature("alpha"), nil)
		html := `<html><body>
			<main>unrelated words entirely</main>
			<div class="hero">alpha beta gamma</div>
		</body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, sitesect.MethodStructure, got.Method)
		assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	})

	t.Run("picks best across multiple documents", func(t *testing.T) {
		t.Parallel()

		m := gq.NewMatcher(sitesect.FixedSignature("checkout and payment details"), nil)
		weak := `<html><body><div>completely different words</div></body></html>`
		strong := `<html><body><div id="checkout">checkout and payment details</div></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{
			doc("a.html", weak),
			doc("b.html", strong),
		}, "")

		require.NoError(t, err)
		assert.Equal(t, "b.html", got.DocumentPath)
		assert.Equal(t, "#checkout", got.Selector)
	})

	t.Run("selector derivation prefers id then classes then tag", func(t *testing.T) {
		t.Parallel()

		sig := sitesect.FixedSignature("unique marker words right here")

		cases := []struct {
			name string
			html string
			want string
		}{
			{
				name: "id",
				html: `<html><body><div id="hero" class="a b">unique marker words right here</div></body></html>`,
				want: "#hero",
			},
			{
				name: "classes",
				html: `<html><body><div class="hero banner">unique marker words right here</div></body></html>`,
				want: ".hero.banner",
			},
			{
				name: "tag",
				html: `<html><body><article>unique marker words right here</article></body></html>`,
				want: "article",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				m := gq.NewMatcher(sig, nil)

				got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", tc.html)}, "")

				require.NoError(t, err)
				assert.Equal(t, tc.want, got.Selector)
				assert.Equal(t, sitesect.MethodVisual, got.Method)
			})
		}
	})

	t.Run("external scorer result wins when most confident", func(t *testing.T) {
		t.Parallel()

		vision := &mock.VisionScorer{
			ScoreSectionFn: func(ctx context.Context, shot *sitesect.Screenshot, html, sectionName string) (*sitesect.VisionResult, error) {
				return &sitesect.VisionResult{Selector: "#pricing", Confidence: 0.95, Rationale: "model pick", Structured: true}, nil
			},
		}
		m := gq.NewMatcher(nil, vision)
		html := `<html><body><main>some page</main></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, sitesect.MethodExternal, got.Method)
		assert.Equal(t, "#pricing", got.Selector)
		assert.InDelta(t, 0.95, got.Confidence, 1e-9)
	})

	t.Run("external scorer failure degrades gracefully", func(t *testing.T) {
		t.Parallel()

		vision := &mock.VisionScorer{
			ScoreSectionFn: func(ctx context.Context, shot *sitesect.Screenshot, html, sectionName string) (*sitesect.VisionResult, error) {
				return nil, errors.New("network down")
			},
		}
		m := gq.NewMatcher(nil, vision)
		html := `<html><body><p>plain page</p></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, sitesect.MethodFallback, got.Method)
	})

	t.Run("out of range external confidence is clamped", func(t *testing.T) {
		t.Parallel()

		vision := &mock.VisionScorer{
			ScoreSectionFn: func(ctx context.Context, shot *sitesect.Screenshot, html, sectionName string) (*sitesect.VisionResult, error) {
				return &sitesect.VisionResult{Selector: "#x", Confidence: 1.7, Structured: true}, nil
			},
		}
		m := gq.NewMatcher(nil, vision)
		html := `<html><body><p>page</p></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	})

	t.Run("signature function error disables signature strategies", func(t *testing.T) {
		t.Parallel()

		failing := func(*sitesect.Screenshot) (string, error) {
			return "", errors.New("ocr unavailable")
		}
		m := gq.NewMatcher(failing, nil)
		html := `<html><body><div class="hero">welcome to the site everyone</div></body></html>`

		got, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "")

		require.NoError(t, err)
		assert.Equal(t, sitesect.MethodFallback, got.Method)
	})

	t.Run("proposed section name is forwarded to the external scorer", func(t *testing.T) {
		t.Parallel()

		var gotName string
		vision := &mock.VisionScorer{
			ScoreSectionFn: func(ctx context.Context, shot *sitesect.Screenshot, html, sectionName string) (*sitesect.VisionResult, error) {
				gotName = sectionName
				return nil, errors.New("skip")
			},
		}
		m := gq.NewMatcher(nil, vision)
		html := `<html><body><p>page</p></body></html>`

		_, err := m.Match(context.Background(), shot, []*sitesect.Document{doc("index.html", html)}, "hero")

		require.NoError(t, err)
		assert.Equal(t, "hero", gotName)
	})
}
