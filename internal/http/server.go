// Package http provides the API server, routing and server middleware.
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

	authHTTP "github.com/siaa-labs/vault/internal/auth/http"
	vaultHTTP "github.com/siaa-labs/vault/internal/vault/http"
)

const (
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 15 * time.Second
	serverIdleTimeout  = 60 * time.Second
)

// Server represents the main API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router is not built until
// SetupRouter is called with the handlers and middlewares to mount.
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
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
			IdleTimeout:  serverIdleTimeout,
		},
	}
}

// RouterConfig carries the handlers and middlewares the router mounts.
// Nil optional middlewares (rate limit, CORS) are skipped.
type RouterConfig struct {
	TokenHandler         *authHTTP.TokenHandler
	ClientHandler        *authHTTP.ClientHandler
	AuditLogHandler      *authHTTP.AuditLogHandler
	InternalTokenHandler *authHTTP.InternalTokenHandler
	SecretHandler        *vaultHTTP.SecretHandler

	AuthenticationMiddleware gin.HandlerFunc
	NamespaceMiddleware      gin.HandlerFunc
	AdminMiddleware          gin.HandlerFunc
	SharedKeyMiddleware      gin.HandlerFunc
	TokenRateLimitMiddleware gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string
}

// SetupRouter builds the Gin router and registers all routes.
//
// Route map:
//
//	POST   /auth/token                      client credential exchange (rate limited)
//	GET    /secrets/namespaces              namespaces visible to the caller
//	GET    /secrets/:namespace              bulk read of a namespace
//	DELETE /secrets/:namespace              remove a whole namespace
//	GET    /secrets/:namespace/keys         metadata listing, no values
//	GET    /secrets/:namespace/:key         read one secret
//	PUT    /secrets/:namespace/:key         write one secret
//	DELETE /secrets/:namespace/:key         remove one secret
//	POST   /admin/clients                   register a client
//	GET    /admin/clients                   list clients
//	DELETE /admin/clients/:client_id        deactivate a client
//	GET    /admin/audit                     query the audit log
//	GET    /internal/current-token          rotating internal token fetch
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(authHTTP.SourceAddressMiddleware())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	auth := router.Group("/auth")
	if cfg.TokenRateLimitMiddleware != nil {
		auth.Use(cfg.TokenRateLimitMiddleware)
	}
	auth.POST("/token", cfg.TokenHandler.AuthenticateHandler)

	secrets := router.Group("/secrets")
	secrets.Use(cfg.AuthenticationMiddleware)
	secrets.GET("/namespaces", cfg.SecretHandler.ListNamespacesHandler)

	namespaced := secrets.Group("/:namespace")
	namespaced.Use(cfg.NamespaceMiddleware)
	namespaced.GET("", cfg.SecretHandler.ReadAllHandler)
	namespaced.DELETE("", cfg.SecretHandler.DeleteNamespaceHandler)
	namespaced.GET("/keys", cfg.SecretHandler.ListKeysHandler)
	namespaced.GET("/:key", cfg.SecretHandler.ReadHandler)
	namespaced.PUT("/:key", cfg.SecretHandler.WriteHandler)
	namespaced.DELETE("/:key", cfg.SecretHandler.DeleteHandler)

	admin := router.Group("/admin")
	admin.Use(cfg.AdminMiddleware)
	admin.POST("/clients", cfg.ClientHandler.CreateHandler)
	admin.GET("/clients", cfg.ClientHandler.ListHandler)
	admin.DELETE("/clients/:client_id", cfg.ClientHandler.DeactivateHandler)
	admin.GET("/audit", cfg.AuditLogHandler.ListHandler)

	internal := router.Group("/internal")
	internal.Use(cfg.SharedKeyMiddleware)
	internal.GET("/current-token", cfg.InternalTokenHandler.CurrentTokenHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic.
// A failed database ping makes the server not ready.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness database ping failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. SetupRouter must have been called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured, call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
