package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseDriver:   DatabaseDriverSQLite,
		RateLimitStore:   RateLimitStoreMemory,
		MetricsCacheType: CacheTypeMemory,
		NonceCacheType:   CacheTypeMemory,
		TimestampSkew:    5 * time.Minute,
		NonceTTL:         10 * time.Minute,
		TokenLength:      40,
		SecretLength:     40,
		VerifierLength:   20,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid memory setup",
			mutate: func(*Config) {},
		},
		{
			name: "valid redis rate limit store",
			mutate: func(c *Config) {
				c.EnableRateLimit = true
				c.RateLimitStore = RateLimitStoreRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name: "redis rate limit store without address",
			mutate: func(c *Config) {
				c.EnableRateLimit = true
				c.RateLimitStore = RateLimitStoreRedis
			},
			expectError: true,
			errorMsg:    `RATE_LIMIT_STORE="redis" requires REDIS_ADDR`,
		},
		{
			name:        "invalid rate limit store",
			mutate:      func(c *Config) { c.RateLimitStore = "reddis" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:        "invalid database driver",
			mutate:      func(c *Config) { c.DatabaseDriver = "mysql" },
			expectError: true,
			errorMsg:    `invalid DATABASE_DRIVER value: "mysql"`,
		},
		{
			name:        "invalid metrics cache type",
			mutate:      func(c *Config) { c.MetricsCacheType = "memcached" },
			expectError: true,
			errorMsg:    `invalid METRICS_CACHE_TYPE value: "memcached"`,
		},
		{
			name:        "redis-aside nonce cache without redis address",
			mutate:      func(c *Config) { c.NonceCacheType = CacheTypeRedisAside },
			expectError: true,
			errorMsg:    `NONCE_CACHE_TYPE="redis-aside" requires REDIS_ADDR`,
		},
		{
			name: "redis nonce cache with redis address",
			mutate: func(c *Config) {
				c.NonceCacheType = CacheTypeRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name:        "nonce ttl shorter than skew",
			mutate:      func(c *Config) { c.NonceTTL = time.Minute },
			expectError: true,
			errorMsg:    "must cover OAUTH_TIMESTAMP_SKEW",
		},
		{
			name:        "zero skew",
			mutate:      func(c *Config) { c.TimestampSkew = 0 },
			expectError: true,
			errorMsg:    "OAUTH_TIMESTAMP_SKEW must be positive",
		},
		{
			name:        "short verifier",
			mutate:      func(c *Config) { c.VerifierLength = 4 },
			expectError: true,
			errorMsg:    "OAUTH_VERIFIER_LENGTH must be at least 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, DatabaseDriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 40, cfg.TokenLength)
	assert.Equal(t, 20, cfg.VerifierLength)
	assert.Equal(t, 5*time.Minute, cfg.TimestampSkew)
	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout)
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.AuditShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("OAUTH_TIMESTAMP_SKEW", "2m")
	t.Setenv("DB_INIT_TIMEOUT", "60s")
	t.Setenv("ENABLE_RATE_LIMIT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, DatabaseDriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 2*time.Minute, cfg.TimestampSkew)
	assert.Equal(t, 60*time.Second, cfg.DBInitTimeout)
	assert.False(t, cfg.EnableRateLimit)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("DB_INIT_TIMEOUT", "invalid")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_INIT_TIMEOUT")
}
