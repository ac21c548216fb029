// Package server exposes the rewrite pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/c360studio/vibeshift/grounding"
	"github.com/c360studio/vibeshift/metric"
	"github.com/c360studio/vibeshift/platform"
	"github.com/c360studio/vibeshift/rank"
	"github.com/c360studio/vibeshift/rewrite"
)

// maxRequestBodySize limits the size of request bodies to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// Server holds the pipeline components behind the HTTP handlers.
type Server struct {
	generator *rewrite.Generator
	tone      *rewrite.ToneAnalyzer
	ranker    *rank.Ranker
	store     grounding.Store
	rules     *platform.StaticRules
	logger    *slog.Logger
	metrics   *metric.Recorder
}

// Option configures a Server.
type Option func(*Server)

// WithStore attaches the grounding store used by the seed and feedback
// endpoints. Without one those endpoints return 503.
func WithStore(store grounding.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec *metric.Recorder) Option {
	return func(s *Server) { s.metrics = rec }
}

// WithRules overrides the platform rules listed by GET /platforms.
func WithRules(rules *platform.StaticRules) Option {
	return func(s *Server) { s.rules = rules }
}

// New creates a server over the given pipeline components.
func New(generator *rewrite.Generator, tone *rewrite.ToneAnalyzer, ranker *rank.Ranker, opts ...Option) *Server {
	s := &Server{
		generator: generator,
		tone:      tone,
		ranker:    ranker,
		rules:     platform.NewStaticRules(nil),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log returns the logger, defaulting to slog.Default if nil.
func (s *Server) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

// RegisterHandlers registers all API endpoints on mux.
func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /rewrite_vibes", s.timed("rewrite_vibes", s.handleRewriteVibes))
	mux.HandleFunc("POST /rewrite_top", s.timed("rewrite_top", s.handleRewriteTop))
	mux.HandleFunc("POST /feedback_accept", s.timed("feedback_accept", s.handleFeedbackAccept))
	mux.HandleFunc("POST /seed_guidelines", s.timed("seed_guidelines", s.handleSeedGuidelines))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /platforms", s.handlePlatforms)
}

// timed wraps a handler with request duration recording.
func (s *Server) timed(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.metrics.ObserveRequest(name, time.Since(start).Seconds())
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePlatforms lists the platforms with built-in validation rules.
func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"platforms": s.rules.Names()})
}
