package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Cache type constants shared by the metrics gauge cache and the nonce cache
const (
	CacheTypeMemory     = "memory"
	CacheTypeRedis      = "redis"
	CacheTypeRedisAside = "redis-aside"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

type Config struct {
	// Server settings
	ServerAddr   string `env:"SERVER_ADDR" envDefault:":8080"`
	BaseURL      string `env:"BASE_URL"    envDefault:"http://localhost:8080"`
	IsProduction bool   `env:"ENVIRONMENT_PRODUCTION" envDefault:"false"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	// Session settings
	SessionSecret string `env:"SESSION_SECRET"  envDefault:"session-secret-change-in-production"`
	SessionMaxAge int    `env:"SESSION_MAX_AGE" envDefault:"86400"` // seconds

	// Database
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string `env:"DATABASE_DSN"    envDefault:"oauth1.db"`

	// Token issuance
	TokenLength    int `env:"OAUTH_TOKEN_LENGTH"    envDefault:"40"`
	SecretLength   int `env:"OAUTH_SECRET_LENGTH"   envDefault:"40"`
	VerifierLength int `env:"OAUTH_VERIFIER_LENGTH" envDefault:"20"`

	// Signed request checks
	TimestampSkew  time.Duration `env:"OAUTH_TIMESTAMP_SKEW" envDefault:"5m"`
	NonceTTL       time.Duration `env:"OAUTH_NONCE_TTL"      envDefault:"10m"`
	NonceCacheType string        `env:"NONCE_CACHE_TYPE"     envDefault:"memory"`

	// Rate limiting
	EnableRateLimit       bool   `env:"ENABLE_RATE_LIMIT"          envDefault:"true"`
	RateLimitStore        string `env:"RATE_LIMIT_STORE"           envDefault:"memory"`
	RequestTokenRateLimit int    `env:"REQUEST_TOKEN_RATE_LIMIT"   envDefault:"30"` // per minute
	AccessTokenRateLimit  int    `env:"ACCESS_TOKEN_RATE_LIMIT"    envDefault:"30"`
	LoginRateLimit        int    `env:"LOGIN_RATE_LIMIT"           envDefault:"10"`
	APIRateLimit          int    `env:"API_RATE_LIMIT"             envDefault:"300"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Metrics
	MetricsEnabled             bool          `env:"METRICS_ENABLED"                envDefault:"false"`
	MetricsToken               string        `env:"METRICS_TOKEN"`
	MetricsGaugeUpdateEnabled  bool          `env:"METRICS_GAUGE_UPDATE_ENABLED"   envDefault:"true"`
	MetricsGaugeUpdateInterval time.Duration `env:"METRICS_GAUGE_UPDATE_INTERVAL"  envDefault:"5m"`
	MetricsCacheType           string        `env:"METRICS_CACHE_TYPE"             envDefault:"memory"`
	MetricsCacheClientTTL      time.Duration `env:"METRICS_CACHE_CLIENT_TTL"       envDefault:"10s"`

	// Audit
	EnableAuditLogging bool          `env:"ENABLE_AUDIT_LOGGING"  envDefault:"true"`
	AuditLogBufferSize int           `env:"AUDIT_LOG_BUFFER_SIZE" envDefault:"1000"`
	AuditLogRetention  time.Duration `env:"AUDIT_LOG_RETENTION"   envDefault:"2160h"` // 90 days

	// Timeouts
	DBInitTimeout         time.Duration `env:"DB_INIT_TIMEOUT"         envDefault:"30s"`
	DBCloseTimeout        time.Duration `env:"DB_CLOSE_TIMEOUT"        envDefault:"5s"`
	RedisConnTimeout      time.Duration `env:"REDIS_CONN_TIMEOUT"      envDefault:"5s"`
	RedisCloseTimeout     time.Duration `env:"REDIS_CLOSE_TIMEOUT"     envDefault:"5s"`
	CacheInitTimeout      time.Duration `env:"CACHE_INIT_TIMEOUT"      envDefault:"5s"`
	CacheCloseTimeout     time.Duration `env:"CACHE_CLOSE_TIMEOUT"     envDefault:"5s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	AuditShutdownTimeout  time.Duration `env:"AUDIT_SHUTDOWN_TIMEOUT"  envDefault:"10s"`

	// Seed data
	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD"`
	SeedDemoClients      bool   `env:"SEED_DEMO_CLIENTS" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks enumerated settings and cross-field requirements.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("invalid DATABASE_DRIVER value: %q (must be %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres))
	}

	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		errs = append(errs, fmt.Errorf("invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis))
	} else if c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis && c.RedisAddr == "" {
		errs = append(errs, errors.New(`RATE_LIMIT_STORE="redis" requires REDIS_ADDR`))
	}

	if err := validateCacheType("METRICS_CACHE_TYPE", c.MetricsCacheType, c.RedisAddr); err != nil {
		errs = append(errs, err)
	}
	if err := validateCacheType("NONCE_CACHE_TYPE", c.NonceCacheType, c.RedisAddr); err != nil {
		errs = append(errs, err)
	}

	if c.TimestampSkew <= 0 {
		errs = append(errs, fmt.Errorf("OAUTH_TIMESTAMP_SKEW must be positive, got %s", c.TimestampSkew))
	}
	if c.NonceTTL < c.TimestampSkew {
		errs = append(errs, fmt.Errorf("OAUTH_NONCE_TTL (%s) must cover OAUTH_TIMESTAMP_SKEW (%s)",
			c.NonceTTL, c.TimestampSkew))
	}
	if c.TokenLength < 16 || c.SecretLength < 16 {
		errs = append(errs, errors.New("OAUTH_TOKEN_LENGTH and OAUTH_SECRET_LENGTH must be at least 16"))
	}
	if c.VerifierLength < 8 {
		errs = append(errs, errors.New("OAUTH_VERIFIER_LENGTH must be at least 8"))
	}

	return errors.Join(errs...)
}

func validateCacheType(name, value, redisAddr string) error {
	switch value {
	case CacheTypeMemory:
		return nil
	case CacheTypeRedis, CacheTypeRedisAside:
		if redisAddr == "" {
			return fmt.Errorf("%s=%q requires REDIS_ADDR", name, value)
		}
		return nil
	default:
		return fmt.Errorf("invalid %s value: %q (must be %q, %q or %q)",
			name, value, CacheTypeMemory, CacheTypeRedis, CacheTypeRedisAside)
	}
}
