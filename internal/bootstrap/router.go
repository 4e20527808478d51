package bootstrap

import (
	"net/http"

	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/handlers"
	"github.com/go-authgate/oauth1gate/internal/logger"
	"github.com/go-authgate/oauth1gate/internal/metrics"
	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// setupRouter configures the Gin router with all routes and middleware
func (app *Application) setupRouter(rateLimiters rateLimitMiddlewares) *gin.Engine {
	cfg := app.Config
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(app.MetricsRecorder))
	r.Use(logger.GinLogger(app.Logger), gin.Recovery())
	r.Use(util.IPMiddleware())

	// Setup session middleware
	setupSessionMiddleware(r, cfg)

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck(app.DB, app.NonceCache))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup all routes
	app.setupAllRoutes(r, rateLimiters)

	logServerStartup(cfg)
	return r
}

// setupSessionMiddleware configures session handling middleware
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("oauth1_session", sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		zap.S().Info("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		zap.S().Info("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		zap.S().Info("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func (app *Application) setupAllRoutes(r *gin.Engine, rateLimiters rateLimitMiddlewares) {
	h := app.HandlerSet
	requireAuth := middleware.RequireAuth(app.UserService)
	signed := middleware.SignedRequest(app.RequestValidator, app.MetricsRecorder)

	// Login routes
	r.GET("/login", h.auth.LoginPage)
	r.POST("/login", rateLimiters.login, h.auth.Login)

	// Consumer endpoints, signed with OAuth credentials
	oauth := r.Group("/oauth")
	{
		oauth.GET("/request_token", rateLimiters.requestToken, signed, h.token.RequestToken)
		oauth.POST("/request_token", rateLimiters.requestToken, signed, h.token.RequestToken)
		oauth.GET("/access_token", rateLimiters.accessToken, signed, h.token.AccessToken)
		oauth.POST("/access_token", rateLimiters.accessToken, signed, h.token.AccessToken)
	}

	// Browser routes (require login + CSRF)
	browser := r.Group("")
	browser.Use(requireAuth, middleware.CSRFMiddleware())
	{
		browser.GET("/", h.client.Home)
		browser.POST("/logout", h.auth.Logout)
		browser.GET("/oauth/authorize", h.authorization.ShowAuthorizePage)
		browser.POST("/oauth/authorize", h.authorization.HandleAuthorize)
		browser.POST("/oauth/revoke", h.client.Revoke)
		browser.GET("/user/:display_name/oauth_clients", h.client.ShowClientsPage)
	}

	// Public API
	r.GET("/api/0.6/notes/:id", h.api.GetNote)

	// Protected API: signed with an access token, then checked per permission
	api := r.Group("/api/0.6")
	api.Use(rateLimiters.api, signed, middleware.RequireAccessToken(app.AccessGuard))
	{
		readPrefs := middleware.RequirePermission(models.PermReadPrefs)
		writePrefs := middleware.RequirePermission(models.PermWritePrefs)
		readGPX := middleware.RequirePermission(models.PermReadGPX)
		writeGPX := middleware.RequirePermission(models.PermWriteGPX)
		writeNotes := middleware.RequirePermission(models.PermWriteNotes)

		api.GET("/user/details", readPrefs, h.api.UserDetails)
		api.GET("/user/preferences", readPrefs, h.api.ListPreferences)
		api.PUT("/user/preferences", writePrefs, h.api.ReplacePreferences)
		api.GET("/user/preferences/:key", readPrefs, h.api.GetPreference)
		api.PUT("/user/preferences/:key", writePrefs, h.api.SetPreference)
		api.DELETE("/user/preferences/:key", writePrefs, h.api.DeletePreference)

		api.GET("/user/gpx_files", readGPX, h.api.ListTraces)
		api.POST("/gpx/create", writeGPX, h.api.CreateTrace)
		api.GET("/gpx/:id", readGPX, h.api.GetTrace)
		api.GET("/gpx/:id/details", readGPX, h.api.GetTrace)

		api.POST("/notes", writeNotes, h.api.CreateNote)
		api.POST("/notes/:id/close", writeNotes, h.api.CloseNote)
		api.POST("/notes/:id/reopen", writeNotes, h.api.ReopenNote)
	}

	// Admin routes (require admin role)
	admin := r.Group("/admin")
	admin.Use(requireAuth, middleware.RequireAdmin(), middleware.CSRFMiddleware())
	{
		admin.GET("/clients", h.admin.ListClients)
		admin.POST("/users/:id/suspend", h.admin.SuspendUser)
		admin.POST("/users/:id/unsuspend", h.admin.UnsuspendUser)
		admin.POST("/users/:id/hide", h.admin.HideUser)
		admin.POST("/users/:id/unhide", h.admin.UnhideUser)
		admin.POST("/users/:id/confirm", h.admin.ConfirmUser)

		admin.GET("/audit/api", h.audit.ListAuditLogs)
		admin.GET("/audit/api/stats", h.audit.GetAuditLogStats)
		admin.GET("/audit/export", h.audit.ExportAuditLogs)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
		return
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	zap.S().Infow("OAuth 1.0a provider starting",
		"addr", cfg.ServerAddr,
		"request_token_url", cfg.BaseURL+"/oauth/request_token",
		"authorize_url", cfg.BaseURL+"/oauth/authorize",
		"access_token_url", cfg.BaseURL+"/oauth/access_token",
	)
}
