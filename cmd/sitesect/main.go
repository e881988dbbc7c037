package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitesect"
	"github.com/fwojciec/sitesect/acquire"
	"github.com/fwojciec/sitesect/assemble"
	"github.com/fwojciec/sitesect/extract"
	"github.com/fwojciec/sitesect/fs"
	"github.com/fwojciec/sitesect/gemini"
	"github.com/fwojciec/sitesect/goquery"
	sitesecthttp "github.com/fwojciec/sitesect/http"
	"github.com/fwojciec/sitesect/rod"
	sitesectslog "github.com/fwojciec/sitesect/slog"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// DataDir holds site trees, screenshots, sections and assembled sites.
	// Set before calling Run().
	DataDir string

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	// Optional .env for GEMINI_API_KEY and SITESECT_DATA.
	_ = godotenv.Load()

	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitesect"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitesect --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Core stores are always available.
	deps.Sites = fs.NewSiteStore(filepath.Join(m.DataDir, "sites"))
	deps.Screenshots = fs.NewScreenshotStore(filepath.Join(m.DataDir, "screenshots"))
	deps.SectionsDir = filepath.Join(m.DataDir, "sections")
	deps.Extractor = extract.NewExtractor(deps.SectionsDir)
	deps.Assembler = assemble.NewAssembler(filepath.Join(m.DataDir, "assembled"))
	deps.LoadDocuments = fs.LoadDocuments
	defer m.Close()

	// Gemini is optional: without an API key the matcher runs on its
	// text-based strategies and suggestions are unavailable.
	var scorer *gemini.Scorer
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		scorer = gemini.NewScorer(client)
		deps.Suggester = scorer
	}

	if cmd == "acquire" || cmd == "serve" {
		acquirer, err := m.buildAcquirer(deps.Sites, cli, logger)
		if err != nil {
			return err
		}
		deps.Acquirer = sitesectslog.NewLoggingAcquirer(acquirer, logger)
	}

	if cmd == "match" || cmd == "serve" {
		signature := signatureFunc(cli.Match.Signature, scorer)
		var vision sitesect.VisionScorer
		if scorer != nil {
			vision = scorer
		}
		deps.Matcher = sitesectslog.NewLoggingMatcher(goquery.NewMatcher(signature, vision), logger)
	}

	if cmd == "screenshots" && cli.Screenshots.Capture != "" {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			return fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		m.closers = append(m.closers, rodFetcher)
		deps.Capture = rodFetcher.CaptureScreenshot
	}

	if cmd == "suggest" && deps.Suggester == nil {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return fmt.Errorf("suggestions require GEMINI_API_KEY")
	}

	if cmd == "serve" {
		server := &sitesecthttp.Server{
			Sites:         deps.Sites,
			Screenshots:   deps.Screenshots,
			Acquirer:      deps.Acquirer,
			Matcher:       deps.Matcher,
			Extractor:     deps.Extractor,
			Assembler:     deps.Assembler,
			Suggester:     deps.Suggester,
			LoadDocuments: deps.LoadDocuments,
			Logger:        logger,
		}
		deps.Serve = func(addr string) error {
			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, server.Handler())
		}
	}

	return kongCtx.Run(deps)
}

// buildAcquirer assembles the acquisition pipeline: wget mirror plus a
// single-page fallback fetcher, browser-rendered when requested.
func (m *Main) buildAcquirer(sites sitesect.SiteStore, cli *CLI, logger *slog.Logger) (*acquire.Acquirer, error) {
	var fetcher sitesect.Fetcher
	if cli.Acquire.Render {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		fetcher = rod.NewLoggingFetcher(rodFetcher, logger)
	} else {
		fetcher = sitesecthttp.NewFetcher()
	}
	m.closers = append(m.closers, fetcher)

	acquirer := &acquire.Acquirer{
		Sites:   sites,
		Fetcher: fetcher,
		Limiter: acquire.NewHostLimiter(4.0, 2),
	}
	if !cli.Acquire.NoMirror {
		acquirer.Mirror = &acquire.Wget{}
	}
	return acquirer, nil
}

// signatureFunc picks the screenshot signature source: an explicit fixed
// string wins, then the vision describer, then an empty signature that
// disables the text strategies.
func signatureFunc(fixed string, scorer *gemini.Scorer) sitesect.SignatureFunc {
	if fixed != "" {
		return sitesect.FixedSignature(fixed)
	}
	if scorer != nil {
		return scorer.Signature()
	}
	return sitesect.FixedSignature("")
}

func defaultDataDir() string {
	if dir := os.Getenv("SITESECT_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitesect-data"
	}
	dir := filepath.Join(home, ".sitesect")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
