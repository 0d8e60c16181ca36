// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authHTTP "github.com/siaa-labs/vault/internal/auth/http"
	authService "github.com/siaa-labs/vault/internal/auth/service"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	"github.com/siaa-labs/vault/internal/config"
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
	cryptoService "github.com/siaa-labs/vault/internal/crypto/service"
	"github.com/siaa-labs/vault/internal/database"
	appHTTP "github.com/siaa-labs/vault/internal/http"
	"github.com/siaa-labs/vault/internal/metrics"
	vaultHTTP "github.com/siaa-labs/vault/internal/vault/http"
	vaultUseCase "github.com/siaa-labs/vault/internal/vault/usecase"
	"github.com/siaa-labs/vault/internal/worker"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	masterKey   *cryptoDomain.MasterKey
	aeadManager cryptoService.AEADManager
	kmsService  cryptoService.KMSService
	engine      cryptoService.Engine

	// Services
	secretService        authService.SecretService
	sessionService       authService.SessionService
	internalTokenService authService.InternalTokenService

	// Repositories
	clientRepository        authUseCase.ClientRepository
	auditLogRepository      authUseCase.AuditLogRepository
	internalTokenRepository authUseCase.InternalTokenRepository
	secretRepository        vaultUseCase.SecretRepository

	// Use Cases
	clientUseCase        authUseCase.ClientUseCase
	sessionUseCase       authUseCase.SessionUseCase
	internalTokenUseCase authUseCase.InternalTokenUseCase
	auditLogUseCase      authUseCase.AuditLogUseCase
	secretUseCase        vaultUseCase.SecretUseCase

	// Handlers
	tokenHandler         *authHTTP.TokenHandler
	clientHandler        *authHTTP.ClientHandler
	auditLogHandler      *authHTTP.AuditLogHandler
	internalTokenHandler *authHTTP.InternalTokenHandler
	secretHandler        *vaultHTTP.SecretHandler

	// Servers and Workers
	httpServer          *appHTTP.Server
	metricsServer       *appHTTP.MetricsServer
	tokenRotationWorker *worker.TokenRotationWorker

	// Initialization flags and mutex for thread-safety
	mu                          sync.Mutex
	loggerInit                  sync.Once
	dbInit                      sync.Once
	txManagerInit               sync.Once
	metricsProviderInit         sync.Once
	businessMetricsInit         sync.Once
	masterKeyInit               sync.Once
	aeadManagerInit             sync.Once
	kmsServiceInit              sync.Once
	engineInit                  sync.Once
	secretServiceInit           sync.Once
	sessionServiceInit          sync.Once
	internalTokenServiceInit    sync.Once
	clientRepositoryInit        sync.Once
	auditLogRepositoryInit      sync.Once
	internalTokenRepositoryInit sync.Once
	secretRepositoryInit        sync.Once
	clientUseCaseInit           sync.Once
	sessionUseCaseInit          sync.Once
	internalTokenUseCaseInit    sync.Once
	auditLogUseCaseInit         sync.Once
	secretUseCaseInit           sync.Once
	tokenHandlerInit            sync.Once
	clientHandlerInit           sync.Once
	auditLogHandlerInit         sync.Once
	internalTokenHandlerInit    sync.Once
	secretHandlerInit           sync.Once
	httpServerInit              sync.Once
	metricsServerInit           sync.Once
	tokenRotationWorkerInit     sync.Once
	initErrors                  map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// A no-op recorder is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API HTTP server with all routes mounted.
func (c *Container) HTTPServer() (*appHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// TokenRotationWorker returns the internal token rotation worker.
func (c *Container) TokenRotationWorker() (*worker.TokenRotationWorker, error) {
	var err error
	c.tokenRotationWorkerInit.Do(func() {
		c.tokenRotationWorker, err = c.initTokenRotationWorker()
		if err != nil {
			c.initErrors["tokenRotationWorker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRotationWorker"]; exists {
		return nil, storedErr
	}
	return c.tokenRotationWorker, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Wipe key material last so in-flight shutdown work can still decrypt.
	if c.masterKey != nil {
		c.masterKey.Close()
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return businessMetrics, nil
}

// initHTTPServer creates the API HTTP server and mounts all routes.
func (c *Container) initHTTPServer() (*appHTTP.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	clientHandler, err := c.ClientHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get client handler for http server: %w", err)
	}

	auditLogHandler, err := c.AuditLogHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log handler for http server: %w", err)
	}

	internalTokenHandler, err := c.InternalTokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get internal token handler for http server: %w", err)
	}

	secretHandler, err := c.SecretHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret handler for http server: %w", err)
	}

	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for http server: %w", err)
	}

	internalTokenUseCase, err := c.InternalTokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get internal token use case for http server: %w", err)
	}

	routerConfig := appHTTP.RouterConfig{
		TokenHandler:         tokenHandler,
		ClientHandler:        clientHandler,
		AuditLogHandler:      auditLogHandler,
		InternalTokenHandler: internalTokenHandler,
		SecretHandler:        secretHandler,

		AuthenticationMiddleware: authHTTP.AuthenticationMiddleware(sessionUseCase, internalTokenUseCase, logger),
		NamespaceMiddleware:      authHTTP.NamespaceAuthorizationMiddleware(logger),
		AdminMiddleware:          authHTTP.StaticSecretMiddleware("X-Admin-Secret", c.config.AdminSecret, logger),
		SharedKeyMiddleware:      authHTTP.StaticSecretMiddleware("X-Secret-Key", c.config.InternalSecretKey, logger),

		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
	}

	if c.config.RateLimitTokenEnabled {
		routerConfig.TokenRateLimitMiddleware = authHTTP.TokenRateLimitMiddleware(
			c.config.RateLimitTokenRequestsPerSec,
			c.config.RateLimitTokenBurst,
			logger,
		)
	}

	server := appHTTP.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the Prometheus metrics server.
func (c *Container) initMetricsServer() (*appHTTP.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return appHTTP.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}

// initTokenRotationWorker creates the internal token rotation worker.
func (c *Container) initTokenRotationWorker() (*worker.TokenRotationWorker, error) {
	internalTokenUseCase, err := c.InternalTokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get internal token use case for rotation worker: %w", err)
	}

	return worker.NewTokenRotationWorker(
		internalTokenUseCase,
		c.config.TokenRotationInterval,
		c.Logger(),
	), nil
}
