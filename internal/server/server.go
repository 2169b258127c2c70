// Package server exposes the matcher, extractor and page scanner over HTTP
// for the browser extension and other local clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scbrown/tmcheck/internal/aggregate"
	"github.com/scbrown/tmcheck/internal/analyze"
	"github.com/scbrown/tmcheck/internal/extract"
	"github.com/scbrown/tmcheck/internal/match"
	"github.com/scbrown/tmcheck/internal/metrics"
	"github.com/scbrown/tmcheck/internal/model"
	"github.com/scbrown/tmcheck/internal/scan"
)

// DefaultAddr is the listen address of `tmcheck serve`.
const DefaultAddr = ":7274"

// Server wraps a Matcher and exposes it over HTTP.
type Server struct {
	matcher    *match.Matcher
	scanner    *scan.Scanner
	extractor  *extract.Extractor
	metrics    *metrics.Metrics
	logger     *zap.Logger
	maxDetails int

	mux *http.ServeMux
	srv *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithExtractor sets the extractor used by /extract and /scan.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Server) { s.extractor = e }
}

// WithMaxDetails sets the default details cap of reports.
func WithMaxDetails(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxDetails = n
		}
	}
}

// WithMetrics serves m's registry on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server that delegates to the given matcher.
func New(m *match.Matcher, opts ...Option) *Server {
	srv := &Server{
		matcher:    m,
		extractor:  extract.New(),
		logger:     zap.NewNop(),
		maxDetails: aggregate.DefaultMaxDetails,
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.scanner = scan.New(m,
		scan.WithExtractor(srv.extractor),
		scan.WithMaxDetails(srv.maxDetails),
		scan.WithMetrics(srv.metrics),
		scan.WithLogger(srv.logger),
	)
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/check", s.handleCheck)
	s.mux.HandleFunc("POST /api/v1/check/listing", s.handleCheckListing)
	s.mux.HandleFunc("POST /api/v1/extract", s.handleExtract)
	s.mux.HandleFunc("POST /api/v1/scan", s.handleScan)
	s.mux.HandleFunc("GET /api/v1/similar", s.handleSimilar)
	s.mux.HandleFunc("GET /api/v1/dictionary", s.handleDictionary)
	s.mux.HandleFunc("DELETE /api/v1/cache", s.handleClearCache)
	s.mux.HandleFunc("GET /api/v1/cache/stats", s.handleCacheStats)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.srv = s.httpServer()
	s.srv.Addr = addr
	return s.srv.ListenAndServe()
}

// Serve accepts connections on the given listener.
func (s *Server) Serve(ln net.Listener) error {
	s.srv = s.httpServer()
	return s.srv.Serve(ln)
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Handler returns the HTTP handler for use with httptest.Server or custom listeners.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type checkRequest struct {
	Terms []string `json:"terms"`
}

type checkResponse struct {
	Results []model.MatchResult `json:"results"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Terms) > MaxTerms {
		writeErr(w, http.StatusRequestEntityTooLarge, "too many terms: %d (max %d)", len(req.Terms), MaxTerms)
		return
	}
	results, err := s.matcher.Batch(r.Context(), req.Terms)
	if err != nil {
		s.writeCancelled(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Results: results})
}

func (s *Server) handleCheckListing(w http.ResponseWriter, r *http.Request) {
	var l model.Listing
	if !decodeBody(w, r, &l) {
		return
	}
	limit, err := parseInt(r, "max")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	if limit <= 0 {
		limit = s.maxDetails
	}
	report, err := s.matcher.CheckListing(r.Context(), l, limit)
	if err != nil {
		s.writeCancelled(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type extractRequest struct {
	Text  string   `json:"text"`
	HTML  bool     `json:"html"`
	Title string   `json:"title,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

type extractResponse struct {
	Terms []string `json:"terms"`
}

// handleExtract returns the candidate terms of text, or of a listing when
// title or tags are given.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var terms []string
	if req.Title != "" || len(req.Tags) > 0 {
		terms = s.extractor.ExtractListing(req.Title, req.Tags)
	} else {
		text := req.Text
		if req.HTML {
			text = extract.StripHTML(text)
		}
		terms = s.extractor.Extract(text)
	}
	if terms == nil {
		terms = []string{}
	}
	writeJSON(w, http.StatusOK, extractResponse{Terms: terms})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var page model.Page
	if !decodeBody(w, r, &page) {
		return
	}
	report, err := s.scanner.Scan(r.Context(), page)
	if err != nil {
		s.writeCancelled(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		writeErr(w, http.StatusBadRequest, "term query parameter is required")
		return
	}
	topN, err := parseInt(r, "top")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "%v", err)
		return
	}
	if topN <= 0 {
		topN = analyze.DefaultTopN
	}
	suggestions := analyze.SuggestN(term, s.matcher.Dictionary().Keys(), topN, analyze.DefaultThreshold)
	if suggestions == nil {
		suggestions = []analyze.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.matcher.Dictionary().Entries())
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.matcher.Cache().Clear(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, "clearing cache: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.matcher.Cache().Stats(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "getting cache stats: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeCancelled reports a request whose context ended before the batch
// completed. The client has usually gone away already.
func (s *Server) writeCancelled(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	writeErr(w, status, "request cancelled: %v", err)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// writeErr writes a JSON error response.
func writeErr(w http.ResponseWriter, status int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, status, map[string]string{"error": msg})
}
