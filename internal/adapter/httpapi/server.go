// Package httpapi exposes the service over HTTP with gin.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/firstmover/alert-api/internal/alerts"
	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/listings"
	"github.com/firstmover/alert-api/internal/risk"
)

// CounselorFinder looks up HUD housing counseling agencies.
type CounselorFinder interface {
	Counselors(ctx context.Context, city, state string, limit int) []domain.Counselor
}

// Explainer rewrites a deterministic explanation into plain language.
type Explainer interface {
	Rewrite(ctx context.Context, signals []string, score int, label, fallback, location string) string
}

// StatsStore exposes the counters surfaced by GET /stats.
type StatsStore interface {
	CountSubscribers(ctx context.Context) (int64, error)
	CountListings(ctx context.Context) (int64, error)
}

// Server wires all route handlers over one gin engine.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	engine    *risk.Engine
	rules     *risk.RulesStore
	explainer Explainer
	alerts    *alerts.Service
	listings  *listings.Service
	hud       CounselorFinder
	stats     StatsStore
}

func NewServer(addr string, engine *risk.Engine, rules *risk.RulesStore, explainer Explainer, alertSvc *alerts.Service, listingSvc *listings.Service, hud CounselorFinder, stats StatsStore, logger *slog.Logger) *Server {
	s := &Server{
		logger:    logger,
		engine:    engine,
		rules:     rules,
		explainer: explainer,
		alerts:    alertSvc,
		listings:  listingSvc,
		hud:       hud,
		stats:     stats,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.handleHealth)
	router.GET("/", s.handleRoot)
	router.POST("/risk/score", s.handleRiskScore)
	router.GET("/risk/map", s.handleRiskMap)
	router.GET("/listings", s.handleListings)
	router.POST("/listings/ingest", s.handleIngest)
	router.POST("/alerts/subscribe", s.handleSubscribe)
	router.GET("/assistance", s.handleAssistance)
	router.GET("/stats", s.handleStats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
