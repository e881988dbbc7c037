package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/fwojciec/sitesect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxUploadBytes bounds screenshot uploads (16 MB, generous for page
// screenshots).
const MaxUploadBytes = 16 << 20

// Server exposes the acquisition/match/extract/assemble pipeline as a JSON
// API. Every response body is either {"success": true, ...} or
// {"error": "..."} with a status derived from the domain error code.
type Server struct {
	Sites       sitesect.SiteStore
	Screenshots sitesect.ScreenshotStore
	Acquirer    sitesect.Acquirer
	Matcher     sitesect.Matcher
	Extractor   sitesect.Extractor
	Assembler   sitesect.Assembler
	Suggester   sitesect.Suggester

	// LoadDocuments reads a tree's documents for matching; required.
	LoadDocuments func(tree *sitesect.SiteTree) []*sitesect.Document

	Logger *slog.Logger
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract-website", s.handleExtractWebsite)
		r.Post("/upload-screenshot", s.handleUploadScreenshot)
		r.Post("/analyze-section", s.handleAnalyzeSection)
		r.Post("/extract-section", s.handleExtractSection)
		r.Post("/assemble-site", s.handleAssembleSite)
		r.Post("/get-section-suggestions", s.handleSectionSuggestions)
		r.Get("/list-extracted-sites", s.handleListSites)
		r.Get("/list-screenshots", s.handleListScreenshots)
	})

	return r
}

func (s *Server) handleExtractWebsite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		s.error(w, r, sitesect.Errorf(sitesect.EINVALID, "url required"))
		return
	}

	tree, err := s.Acquirer.Acquire(r.Context(), req.URL)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success":   true,
		"host":      tree.Host,
		"root":      tree.Root,
		"documents": len(tree.Documents),
	})
}

func (s *Server) handleUploadScreenshot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.error(w, r, sitesect.Errorf(sitesect.EINVALID, "invalid multipart form: %s", err))
		return
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		s.error(w, r, sitesect.Errorf(sitesect.EINVALID, "screenshot file required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes))
	if err != nil {
		s.error(w, r, sitesect.WrapErrorf(err, sitesect.EINTERNAL, "reading upload"))
		return
	}

	shot, err := s.Screenshots.Save(header.Filename, data)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success":    true,
		"screenshot": shot,
	})
}

func (s *Server) handleAnalyzeSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Host        string `json:"host"`
		Screenshot  string `json:"screenshot"`
		SectionName string `json:"sectionName"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	tree, err := s.Sites.Find(req.Host)
	if err != nil {
		s.error(w, r, err)
		return
	}
	shot, err := s.Screenshots.Load(req.Screenshot)
	if err != nil {
		s.error(w, r, err)
		return
	}

	match, err := s.Matcher.Match(r.Context(), shot, s.LoadDocuments(tree), req.SectionName)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success": true,
		"match":   match,
	})
}

func (s *Server) handleExtractSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Host        string                `json:"host"`
		SectionName string                `json:"sectionName"`
		Match       *sitesect.MatchResult `json:"match"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	// The match is caller-supplied; reject malformed ones before extraction.
	if req.Match != nil {
		if err := req.Match.Validate(); err != nil {
			s.error(w, r, err)
			return
		}
	}

	tree, err := s.Sites.Find(req.Host)
	if err != nil {
		s.error(w, r, err)
		return
	}

	bundle, err := s.Extractor.Extract(r.Context(), tree, req.Match, req.SectionName)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success": true,
		"bundle":  bundle,
	})
}

func (s *Server) handleAssembleSite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bundles []*sitesect.SectionBundle `json:"bundles"`
		Plan    *sitesect.AssemblyPlan    `json:"plan"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	for _, bundle := range req.Bundles {
		if bundle == nil {
			s.error(w, r, sitesect.Errorf(sitesect.EINVALID, "null section bundle"))
			return
		}
		if err := bundle.Validate(); err != nil {
			s.error(w, r, err)
			return
		}
	}

	site, err := s.Assembler.Assemble(r.Context(), req.Bundles, req.Plan)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success": true,
		"site":    site,
	})
}

func (s *Server) handleSectionSuggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Screenshot string `json:"screenshot"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	// Suggestions need the vision scorer; it is optional wiring.
	if s.Suggester == nil {
		s.error(w, r, sitesect.Errorf(sitesect.EUNAVAILABLE, "section name suggestions are not configured"))
		return
	}

	shot, err := s.Screenshots.Load(req.Screenshot)
	if err != nil {
		s.error(w, r, err)
		return
	}

	names, err := s.Suggester.SuggestNames(r.Context(), shot)
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success":     true,
		"suggestions": names,
	})
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	trees, err := s.Sites.List()
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success": true,
		"sites":   trees,
	})
}

func (s *Server) handleListScreenshots(w http.ResponseWriter, r *http.Request) {
	shots, err := s.Screenshots.List()
	if err != nil {
		s.error(w, r, err)
		return
	}

	s.json(w, map[string]any{
		"success":     true,
		"screenshots": shots,
	})
}

// decode reads a JSON request body into v, writing an EINVALID response and
// returning false on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.error(w, r, sitesect.Errorf(sitesect.EINVALID, "invalid JSON body: %s", err))
		return false
	}
	return true
}

func (s *Server) json(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// error writes the JSON error body with a status derived from the domain
// error code. Internal errors are masked and logged.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	code := sitesect.ErrorCode(err)
	if code == sitesect.EINTERNAL && s.Logger != nil {
		s.Logger.Error("internal error", "path", r.URL.Path, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFromCode(code))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": sitesect.ErrorMessage(err)})
}

// statusFromCode maps domain error codes onto HTTP statuses.
func statusFromCode(code string) int {
	switch code {
	case sitesect.EINVALID:
		return http.StatusBadRequest
	case sitesect.ENOTFOUND, sitesect.ENODOCUMENTS:
		return http.StatusNotFound
	case sitesect.EACQUISITION, sitesect.EUNAVAILABLE:
		return http.StatusBadGateway
	case sitesect.ESECTION, sitesect.EASSEMBLY:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
