// Package api exposes the engine's read API: the ranked feed, per-article
// signals and rankings, entity mention history, and run statistics.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/telemetry"
)

// Default timeout values.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server wraps the HTTP server and its router.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(handler *Handler, tel *telemetry.Provider, cfg ServerConfig, log logger.Logger) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	setupRoutes(router, handler, tel)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		log: log,
	}
}

func setupRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	router.GET("/healthz", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	if tel != nil {
		router.GET("/metrics", gin.WrapH(tel.Handler()))
	}

	v1 := router.Group("/api/v1")

	feed := v1.Group("/feed")
	feed.GET("/top", handler.GetTopFeed) // GET /api/v1/feed/top

	articles := v1.Group("/articles")
	articles.GET("/:id/signals", handler.GetArticleSignals) // GET /api/v1/articles/:id/signals
	articles.GET("/:id/ranking", handler.GetArticleRanking) // GET /api/v1/articles/:id/ranking

	entities := v1.Group("/entities")
	entities.GET("/:name/mentions", handler.GetEntityMentions) // GET /api/v1/entities/:name/mentions

	sigs := v1.Group("/signals")
	sigs.GET("/recent", handler.GetRecentSignals) // GET /api/v1/signals/recent

	v1.GET("/stats", handler.GetStats) // GET /api/v1/stats
}

// Start begins serving. Blocks until the server exits.
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", logger.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
