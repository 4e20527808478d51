package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/oauth1"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      core.Recorder
	MetricsCache         core.Cache[int64]
	NonceCache           core.Cache[int64]
	RateLimitRedisClient *redis.Client

	// Services
	AuditService     *services.AuditService
	UserService      *services.UserService
	ClientRegistry   *services.ClientRegistry
	TokenService     *services.TokenService
	AccessGuard      *services.AccessGuard
	ResourceService  *services.ResourceService
	RequestValidator *oauth1.Validator

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, caches, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(app.Config, app.Logger)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Nonce replay cache
	app.NonceCache, err = initializeNonceCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	// Audit service (required by other services)
	app.AuditService = services.NewAuditService(
		app.DB,
		app.Config.EnableAuditLogging,
		app.Config.AuditLogBufferSize,
	)

	app.initializeServices()

	app.RequestValidator = oauth1.NewValidator(
		app.NonceCache,
		app.Config.TimestampSkew,
		app.Config.NonceTTL,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = app.initializeHandlers()

	rateLimiters, err := setupRateLimiting(app.Config, app.AuditService, app.RateLimitRedisClient)
	if err != nil {
		return err
	}

	app.Router = app.setupRouter(rateLimiters)
	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server, app.Config.ServerShutdownTimeout)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addStorageShutdownJob(m, app.Config, app.AuditService, app.DB)
	addAuditLogCleanupJob(m, app.Config, app.AuditService)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCloseJob(m, "metrics", app.MetricsCache)
	addCacheCloseJob(m, "nonce", app.NonceCache)

	// Wait for graceful shutdown
	<-m.Done()
}
