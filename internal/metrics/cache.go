package metrics

import (
	"context"
	"time"

	"github.com/go-authgate/oauth1gate/internal/core"
)

// pendingWindow bounds how old a request token may be and still count as
// pending. Abandoned request tokens are never deleted, so without a window
// the gauge would grow forever.
const pendingWindow = 24 * time.Hour

// CacheWrapper provides a read-through cache for gauge counts.
// It queries the database on cache miss and updates the cache for subsequent requests.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetActiveAccessTokensCount returns the number of active access tokens.
func (m *CacheWrapper) GetActiveAccessTokensCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "tokens:access:active", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountActiveAccessTokens(ctx)
		},
	)
}

// GetPendingRequestTokensCount returns the number of recent request tokens
// awaiting a decision (authorized=false) or the exchange (authorized=true).
func (m *CacheWrapper) GetPendingRequestTokensCount(
	ctx context.Context,
	authorized bool,
	ttl time.Duration,
) (int64, error) {
	key := "tokens:request:awaiting_decision"
	if authorized {
		key = "tokens:request:awaiting_exchange"
	}
	return m.cache.GetWithFetch(ctx, key, ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountPendingRequestTokens(ctx, pendingWindow, authorized)
		},
	)
}

// UpdateGauges refreshes every gauge from the cache (or the database on a
// miss). Failed counts are recorded and leave their gauge untouched.
func (m *CacheWrapper) UpdateGauges(ctx context.Context, recorder core.Recorder, ttl time.Duration) error {
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if active, err := m.GetActiveAccessTokensCount(ctx, ttl); err != nil {
		recorder.RecordDatabaseQueryError("count_access_tokens")
		keep(err)
	} else {
		recorder.SetActiveAccessTokensCount(int(active))
	}

	decision, errDecision := m.GetPendingRequestTokensCount(ctx, false, ttl)
	exchange, errExchange := m.GetPendingRequestTokensCount(ctx, true, ttl)
	if errDecision != nil || errExchange != nil {
		recorder.RecordDatabaseQueryError("count_request_tokens")
		if errDecision != nil {
			keep(errDecision)
		} else {
			keep(errExchange)
		}
	} else {
		recorder.SetPendingRequestTokensCount(int(decision), int(exchange))
	}

	return firstErr
}
