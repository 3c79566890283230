// Package server exposes the tool registry and session store over HTTP:
// tool discovery, single and batch execution, session lifecycle, a light
// intent endpoint, health, and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medai/medmcp/internal/config"
	"github.com/medai/medmcp/internal/session"
	"github.com/medai/medmcp/internal/tool"
)

var releaseMode sync.Once

const (
	serverName        = "MedAI MCP Server"
	serverVersion     = "1.0.0"
	serverDescription = "MCP server for doctor appointment management"
)

// Server is the HTTP front for the tool registry and session manager.
type Server struct {
	cfg      *config.Config
	registry *tool.Registry
	sessions *session.Manager
	metrics  *Metrics
	log      *slog.Logger

	engine *gin.Engine
	http   *http.Server
}

// New builds the router and the underlying http.Server. metrics may be nil,
// in which case the metrics endpoint is not registered.
func New(cfg *config.Config, registry *tool.Registry, sessions *session.Manager, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Debug {
		// gin mode is process-global; set it once.
		releaseMode.Do(func() { gin.SetMode(gin.ReleaseMode) })
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		registry: registry,
		sessions: sessions,
		metrics:  metrics,
		log:      logger,
		engine:   engine,
	}

	engine.Use(s.requestLog())
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	s.routes()

	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

func (s *Server) routes() {
	mcp := s.engine.Group("/mcp")
	mcp.GET("/tools", s.handleDiscoverTools)
	mcp.GET("/tools/:name/schema", s.handleToolSchema)
	mcp.POST("/tools/execute", s.handleExecute)

	s.engine.POST("/sessions", s.handleCreateSession)
	s.engine.GET("/sessions/:id", s.handleGetSession)
	s.engine.DELETE("/sessions/:id", s.handleDeleteSession)

	s.engine.POST("/chat", s.handleChat)

	s.engine.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Run() error {
	s.log.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
