// Package http provides the API server: route assembly, shared middleware,
// and lifecycle management.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	authHTTP "github.com/allisson/wopihost/internal/auth/http"
	authUseCase "github.com/allisson/wopihost/internal/auth/usecase"
	"github.com/allisson/wopihost/internal/config"
	discoveryHTTP "github.com/allisson/wopihost/internal/discovery/http"
	filesHTTP "github.com/allisson/wopihost/internal/files/http"
	urlbuilderHTTP "github.com/allisson/wopihost/internal/urlbuilder/http"
)

// Handlers groups the route handlers mounted on the API server.
type Handlers struct {
	Token     *authHTTP.TokenHandler
	Discovery *discoveryHTTP.DiscoveryHandler
	ActionURL *urlbuilderHTTP.ActionURLHandler
	Wopi      *filesHTTP.WopiHandler
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with all routes mounted.
//
// Route layout:
//   - /health, /ready: unauthenticated probes.
//   - /api/v1/tokens: credential exchange, IP rate limited.
//   - /api/v1/capabilities, /api/v1/discovery: editor capability queries.
//   - /api/v1/files/:id/action-url: authenticated, token bound to the file.
//   - /wopi/files/:id...: the protocol surface editors call back on;
//     authenticated, resource-bound, permission-checked per operation.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	authority authUseCase.TokenAuthority,
	engine authUseCase.AuthorizationEngine,
	handlers Handlers,
	metricsMiddleware gin.HandlerFunc,
) *Server {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	if metricsMiddleware != nil {
		router.Use(metricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler)

	api := router.Group("/api/v1")
	{
		tokens := api.Group("/tokens")
		if cfg.RateLimitTokenEnabled {
			tokens.Use(authHTTP.TokenRateLimitMiddleware(
				cfg.RateLimitTokenRequestsPerSec,
				cfg.RateLimitTokenBurst,
				logger,
			))
		}
		tokens.POST("", handlers.Token.MintTokenHandler)

		api.GET("/capabilities/:ext", handlers.Discovery.CapabilitiesHandler)
		api.POST("/discovery/refresh", handlers.Discovery.RefreshHandler)

		files := api.Group("/files/:id",
			authHTTP.AccessTokenMiddleware(authority, logger),
			authHTTP.ResourceBindingMiddleware("id", logger),
		)
		files.GET("/action-url", handlers.ActionURL.ActionURLHandler)
	}

	wopi := router.Group("/wopi/files/:id",
		authHTTP.AccessTokenMiddleware(authority, logger),
		authHTTP.ResourceBindingMiddleware("id", logger),
	)
	if cfg.RateLimitEnabled {
		wopi.Use(authHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			logger,
		))
	}
	{
		read := authHTTP.PermissionMiddleware(engine, authDomain.PermissionRead, logger)
		write := authHTTP.PermissionMiddleware(engine, authDomain.PermissionUpdate, logger)

		wopi.GET("", read, handlers.Wopi.CheckFileInfoHandler)
		wopi.GET("/contents", read, handlers.Wopi.GetFileHandler)
		wopi.POST("/contents", write, handlers.Wopi.PutFileHandler)
		wopi.POST("", write, handlers.Wopi.FileOperationHandler)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
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
