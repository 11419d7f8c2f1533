// Package api exposes the HTTP boundary. It owns input validation and
// the mapping of typed analysis failures to status codes; the core
// packages never see an unvalidated request.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
	"github.com/dna-screening-server/internal/history"
	"github.com/dna-screening-server/internal/middleware"
	"github.com/dna-screening-server/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	analyzer      *service.Analyzer
	catalog       *catalog.Catalog
	history       history.Store
	defaultMode   domain.Mode
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. The history store may
// be nil when the analysis log is disabled.
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger, analyzer *service.Analyzer, cat *catalog.Catalog, store history.Store) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RateLimit(cfg.RateLimit))

	defaultMode, _ := domain.ParseMode(cfg.Catalog.DefaultMode, domain.ModeExact)

	server := &Server{
		configManager: configManager,
		logger:        logger,
		analyzer:      analyzer,
		catalog:       cat,
		history:       store,
		defaultMode:   defaultMode,
		router:        router,
	}
	server.setupRoutes()
	return server
}

// Start starts the HTTP server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.GET("/diseases", s.handleDiseases)
		v1.GET("/analyses", s.handleAnalyses)
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"timestamp":        time.Now().UTC(),
		"catalog_diseases": s.catalog.Len(),
	})
}
