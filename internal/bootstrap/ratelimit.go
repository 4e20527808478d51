package bootstrap

import (
	"fmt"
	"time"

	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitCleanupInterval = 5 * time.Minute

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	login        gin.HandlerFunc
	requestToken gin.HandlerFunc
	accessToken  gin.HandlerFunc
	api          gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		noOpMiddleware := func(c *gin.Context) { c.Next() }
		return rateLimitMiddlewares{
			login:        noOpMiddleware,
			requestToken: noOpMiddleware,
			accessToken:  noOpMiddleware,
			api:          noOpMiddleware,
		}, nil
	}
	return createRateLimiters(cfg, auditService, redisClient)
}

// createRateLimiters creates rate limiting middlewares for all endpoints
func createRateLimiters(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) (rateLimitMiddlewares, error) {
	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	zap.S().Infow("Rate limiting enabled", "store", storeType)

	var firstErr error
	createLimiter := func(requestsPerMinute int, endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient,
			Prefix:            "oauth1gate:ratelimit:" + endpoint,
			CleanupInterval:   rateLimitCleanupInterval,
			AuditService:      auditService,
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to create rate limiter for %s: %w", endpoint, err)
		}
		return limiter
	}

	limiters := rateLimitMiddlewares{
		login:        createLimiter(cfg.LoginRateLimit, "login"),
		requestToken: createLimiter(cfg.RequestTokenRateLimit, "request_token"),
		accessToken:  createLimiter(cfg.AccessTokenRateLimit, "access_token"),
		api:          createLimiter(cfg.APIRateLimit, "api"),
	}
	if firstErr != nil {
		return rateLimitMiddlewares{}, firstErr
	}
	return limiters, nil
}
