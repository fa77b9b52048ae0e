// Package api exposes the ingest pipeline over HTTP: message
// submission from capture layers, registry management, the pending
// candidate queue, and run statistics.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/spendwise/banktext-backend/internal/application/ingest"
	"github.com/spendwise/banktext-backend/internal/domain/registry"
	"github.com/spendwise/banktext-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	pipeline   *ingest.Pipeline
	registry   *registry.Registry
}

// NewServer creates a new API server.
func NewServer(
	cfg Config,
	repo storage.Repository,
	pipeline *ingest.Pipeline,
	reg *registry.Registry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{
		config:   cfg,
		engine:   engine,
		logger:   logger,
		repo:     repo,
		pipeline: pipeline,
		registry: reg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	{
		api.POST("/messages", s.postMessage)

		api.GET("/institutions", s.listInstitutions)
		api.POST("/institutions", s.addInstitution)

		api.GET("/candidates", s.listCandidates)
		api.GET("/candidates/:id", s.getCandidate)
		api.POST("/candidates/:id/confirm", s.confirmCandidate)
		api.POST("/candidates/:id/ignore", s.ignoreCandidate)

		api.POST("/ledger/expenses", s.addLedgerExpense)

		api.GET("/runs", s.listRuns)
		api.GET("/stats", s.stats)
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
