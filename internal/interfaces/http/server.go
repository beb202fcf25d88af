// Package http exposes the claim workflow and audit history over HTTP.
// Handlers only translate requests and map typed errors to status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/tpa-claims/internal/application/service"
	"github.com/garyjia/tpa-claims/internal/application/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Mode is the gin mode: debug, release or test
	Mode string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Mode:         gin.ReleaseMode,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	engine     workflow.ClaimWorkflow
	history    service.HistoryService
	logger     Logger
}

// NewServer creates a new HTTP server over the claim workflow and its audit history
func NewServer(
	config ServerConfig,
	engine workflow.ClaimWorkflow,
	history service.HistoryService,
	logger Logger,
) *Server {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	router := gin.New()

	server := &Server{
		config:  config,
		router:  router,
		engine:  engine,
		history: history,
		logger:  logger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.engine, s.history, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		// Claims
		api.GET("/claims", handlers.ListClaims)
		api.POST("/claims", handlers.CreateClaim)
		api.GET("/claims/:id", handlers.GetClaim)
		api.PUT("/claims/:id", handlers.EditClaim)
		api.DELETE("/claims/:id", handlers.DeactivateClaim)

		// Status transitions
		api.POST("/claims/:id/submit", handlers.SubmitClaim)
		api.POST("/claims/:id/start-review", handlers.StartReview)
		api.POST("/claims/:id/approve", handlers.ApproveClaim)
		api.POST("/claims/:id/reject", handlers.RejectClaim)
		api.POST("/claims/:id/return-for-info", handlers.ReturnForInfo)
		api.POST("/claims/:id/settle", handlers.SettleClaim)

		// Supplementary actions
		api.POST("/claims/:id/assign", handlers.AssignReviewer)
		api.POST("/claims/:id/pre-approval", handlers.LinkPreApproval)
		api.POST("/claims/:id/attachments", handlers.AttachDocument)
		api.DELETE("/claims/:id/attachments/:attachmentId", handlers.DetachDocument)

		// Audit trail
		api.GET("/claims/:id/audit", handlers.GetAuditTrail)
		api.GET("/claims/:id/audit/export", handlers.ExportAuditTrail)
		api.GET("/claims/:id/audit/:entryId/state", handlers.GetStateAt)

		api.GET("/claim-types/:type/requirements", handlers.GetRequirements)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
