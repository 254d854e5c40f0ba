// Package app provides the dependency injection container assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/wopihost/internal/auth/http"
	authService "github.com/allisson/wopihost/internal/auth/service"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
	"github.com/allisson/wopihost/internal/config"
	"github.com/allisson/wopihost/internal/database"
	discoveryHTTP "github.com/allisson/wopihost/internal/discovery/http"
	discoveryRepository "github.com/allisson/wopihost/internal/discovery/repository"
	discoveryUseCase "github.com/allisson/wopihost/internal/discovery/usecase"
	filesHTTP "github.com/allisson/wopihost/internal/files/http"
	filesUseCase "github.com/allisson/wopihost/internal/files/usecase"
	"github.com/allisson/wopihost/internal/http"
	locksUseCase "github.com/allisson/wopihost/internal/locks/usecase"
	"github.com/allisson/wopihost/internal/metrics"
	"github.com/allisson/wopihost/internal/urlbuilder"
	urlbuilderHTTP "github.com/allisson/wopihost/internal/urlbuilder/http"
	userUseCase "github.com/allisson/wopihost/internal/user/usecase"
)

// Store driver names. Memory keeps all mutable state in process memory; the
// SQL drivers persist locks and users.
const (
	storeDriverMemory     = "memory"
	storeDriverPostgreSQL = "postgres"
	storeDriverMySQL      = "mysql"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Auth
	secretService  authService.SecretService
	tokenSigner    authService.TokenSigner
	tokenAuthority authUseCase.TokenAuthority
	authzEngine    authUseCase.AuthorizationEngine

	// Users
	userRepository userUseCase.UserRepository
	userUseCase    userUseCase.UseCase

	// Locks
	lockRepository locksUseCase.LockRepository
	lockUseCase    locksUseCase.LockUseCase

	// Files
	fileRepository filesUseCase.FileRepository
	fileUseCase    filesUseCase.FileUseCase

	// Discovery and URL building
	manifestProvider discoveryRepository.ManifestProvider
	discoverer       discoveryUseCase.Discoverer
	urlBuilder       *urlbuilder.Builder

	// Handlers
	tokenHandler     *authHTTP.TokenHandler
	discoveryHandler *discoveryHTTP.DiscoveryHandler
	actionURLHandler *urlbuilderHTTP.ActionURLHandler
	wopiHandler      *filesHTTP.WopiHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	secretServiceInit    sync.Once
	tokenSignerInit      sync.Once
	tokenAuthorityInit   sync.Once
	userRepositoryInit   sync.Once
	userUseCaseInit      sync.Once
	lockRepositoryInit   sync.Once
	lockUseCaseInit      sync.Once
	fileRepositoryInit   sync.Once
	fileUseCaseInit      sync.Once
	manifestProviderInit sync.Once
	discovererInit       sync.Once
	urlBuilderInit       sync.Once
	tokenHandlerInit     sync.Once
	discoveryHandlerInit sync.Once
	actionURLInit        sync.Once
	wopiHandlerInit      sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
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
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection. Returns an error with the memory store
// driver, which needs no database.
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

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
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

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// used when metrics are disabled.
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

// HTTPServer returns the API server instance with all routes mounted.
func (c *Container) HTTPServer() (*http.Server, error) {
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

// MetricsServer returns the metrics server instance, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
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

	if c.tokenSigner != nil {
		c.tokenSigner.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
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
	switch c.config.StoreDriver {
	case storeDriverPostgreSQL, storeDriverMySQL:
	default:
		return nil, fmt.Errorf("store driver %q does not use a database", c.config.StoreDriver)
	}

	db, err := database.Connect(database.Config{
		Driver:             c.config.StoreDriver,
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

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider: %w", err)
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	authority, err := c.TokenAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to get token authority for http server: %w", err)
	}

	engine, err := c.AuthorizationEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization engine for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	discoveryHandler, err := c.DiscoveryHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get discovery handler for http server: %w", err)
	}

	actionURLHandler, err := c.ActionURLHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get action url handler for http server: %w", err)
	}

	wopiHandler, err := c.WopiHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get wopi handler for http server: %w", err)
	}

	var metricsMiddleware gin.HandlerFunc
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	return http.NewServer(
		c.config,
		c.Logger(),
		authority,
		engine,
		http.Handlers{
			Token:     tokenHandler,
			Discovery: discoveryHandler,
			ActionURL: actionURLHandler,
			Wopi:      wopiHandler,
		},
		metricsMiddleware,
	), nil
}
