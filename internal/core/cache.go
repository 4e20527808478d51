package core

import (
	"context"
	"time"
)

// Cache is a TTL key-value store backing the nonce replay guard and the
// access-token count gauge. Memory, Redis and
// Redis-with-client-side-caching backends live in internal/cache.
type Cache[T any] interface {
	// Get returns cache.ErrCacheMiss for absent or expired keys.
	Get(ctx context.Context, key string) (T, error)

	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// SetIfAbsent atomically stores value unless a live entry exists and
	// reports whether it stored. Nonce claims depend on this being atomic
	// across replicas.
	SetIfAbsent(ctx context.Context, key string, value T, ttl time.Duration) (bool, error)

	Delete(ctx context.Context, key string) error

	Close() error

	Health(ctx context.Context) error

	// GetWithFetch is cache-aside: on a miss fetchFunc loads the value,
	// which is then stored for ttl. The rueidisaside backend collapses
	// concurrent misses into one fetch.
	GetWithFetch(
		ctx context.Context,
		key string,
		ttl time.Duration,
		fetchFunc func(ctx context.Context, key string) (T, error),
	) (T, error)
}
