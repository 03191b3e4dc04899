// Package server provides the HTTP API for Kensho.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/factcheck"
	"github.com/hyperjump/kensho/internal/graph"
	"github.com/hyperjump/kensho/internal/timeline"
	"github.com/hyperjump/kensho/internal/verify"
)

// Server is the HTTP server for the Kensho API.
type Server struct {
	engine   *verify.Engine
	graph    *graph.Graph
	timeline *timeline.Timeline
	verdicts *factcheck.Index
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. verdicts may be
// nil when the verdict index is disabled.
func NewServer(
	engine *verify.Engine,
	g *graph.Graph,
	tl *timeline.Timeline,
	verdicts *factcheck.Index,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   engine,
		graph:    g,
		timeline: tl,
		verdicts: verdicts,
		config:   cfg,
		logger:   logger,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/verify", s.handleVerify)
	r.Post("/api/v1/citations", s.handleAddCitation)
	r.Get("/api/v1/sources/{source}/trust", s.handleTrustScore)
	r.Get("/api/v1/sources/{source}/circular", s.handleCircular)
	r.Get("/api/v1/sources/{source}/network", s.handleNetwork)
	r.Get("/api/v1/echo-chambers", s.handleEchoChambers)
	r.Post("/api/v1/claims", s.handleAddClaim)
	r.Get("/api/v1/sources/{source}/timeline", s.handleTimeline)
	r.Get("/api/v1/sources/{source}/narrative-shift", s.handleNarrativeShift)
	r.Get("/api/v1/flagged", s.handleFlagged)
	r.Get("/api/v1/flagged/stats", s.handleFlaggedStats)
	r.Post("/api/v1/factcheck/verdicts", s.handleAddVerdict)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
