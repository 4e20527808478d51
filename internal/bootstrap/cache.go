package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/oauth1gate/internal/cache"
	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/metrics"

	"go.uber.org/zap"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		zap.S().Info("Prometheus metrics initialized")
	} else {
		zap.S().Info("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeMetricsCache initializes the gauge cache. Returns nil when the
// gauge job will not run.
func initializeMetricsCache(ctx context.Context, cfg *config.Config) (core.Cache[int64], error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil //nolint:nilnil // cache not needed in this configuration
	}
	return initializeCache(ctx, cfg, "metrics", cfg.MetricsCacheType, "oauth1gate:metrics:")
}

// initializeNonceCache initializes the replay cache for signed requests.
// It is always needed; multi-instance deployments must share it through
// Redis or replays across instances go unnoticed.
func initializeNonceCache(ctx context.Context, cfg *config.Config) (core.Cache[int64], error) {
	return initializeCache(ctx, cfg, "nonce", cfg.NonceCacheType, "oauth1gate:nonce:")
}

func initializeCache(
	ctx context.Context,
	cfg *config.Config,
	name, cacheType, keyPrefix string,
) (core.Cache[int64], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cacheType {
	case config.CacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[int64](
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			keyPrefix,
			cfg.MetricsCacheClientTTL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		if err := c.Health(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		zap.S().Infow("cache initialized", "cache", name, "type", cacheType,
			"addr", cfg.RedisAddr, "db", cfg.RedisDB, "client_ttl", cfg.MetricsCacheClientTTL)
		return c, nil

	case config.CacheTypeRedis:
		c, err := cache.NewRueidisCache[int64](ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, keyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s cache: %w", name, err)
		}
		zap.S().Infow("cache initialized", "cache", name, "type", cacheType,
			"addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return c, nil

	default: // memory
		zap.S().Infow("cache initialized", "cache", name, "type", config.CacheTypeMemory,
			"note", "single instance only")
		return cache.NewMemoryCache[int64](), nil
	}
}
