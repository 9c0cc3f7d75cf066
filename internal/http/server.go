// Package http provides the API and metrics servers, their router wiring and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	credentialsHTTP "github.com/allisson/requestguard/internal/credentials/http"
	guardHTTP "github.com/allisson/requestguard/internal/guard/http"
	"github.com/allisson/requestguard/internal/metrics"
)

// Route purposes, used as rate limit namespaces and metric labels.
const (
	PurposeSession     = "session"
	PurposeCredentials = "credentials"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new API server. db backs the readiness probe.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine. Every /v1 route runs behind the request guard;
// health probes do not.
func (s *Server) SetupRouter(
	guard *guardHTTP.RequestGuard,
	credentialHandler *credentialsHTTP.CredentialHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	v1.Any("/session",
		guard.Handler(guardHTTP.Policy{Purpose: PurposeSession, Methods: []string{http.MethodGet}}),
		sessionHandler,
	)

	credentials := v1.Group("/credentials")
	credentials.Any("",
		guard.Handler(guardHTTP.Policy{
			Purpose:     PurposeCredentials,
			Methods:     []string{http.MethodGet},
			RequireAuth: guardHTTP.RequireAuth(true),
		}),
		credentialHandler.ListHandler,
	)
	credentials.Any("/:provider",
		guard.Handler(guardHTTP.Policy{
			Purpose:     PurposeCredentials,
			Methods:     []string{http.MethodGet, http.MethodPut},
			RequireAuth: guardHTTP.RequireAuth(true),
		}),
		credentialHandler.ItemHandler,
	)

	s.router = router
}

// Start starts the API server. SetupRouter must have been called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports not_ready until the document store answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}

// sessionHandler reports who the guard authenticated, or that the caller is anonymous.
func sessionHandler(c *gin.Context) {
	identity, ok := guardHTTP.GetIdentity(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user_id": identity.ID})
}
