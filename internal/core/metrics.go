package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Token lifecycle
	RecordRequestTokenIssued(variant string, success bool)
	RecordAuthorizationDecision(decision string)
	RecordTokenExchange(result string, duration time.Duration)
	RecordTokenRevoked()

	// Signed requests
	RecordGuardResult(result string, duration time.Duration)
	RecordSignatureFailure(reason string)

	// Authentication
	RecordLogin(success bool)
	RecordLogout(sessionDuration time.Duration)

	// Gauge Setters (for periodic updates)
	SetActiveAccessTokensCount(count int)
	SetPendingRequestTokensCount(awaitingDecision, awaitingExchange int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by CacheWrapper.
type MetricsStore interface {
	CountActiveAccessTokens(ctx context.Context) (int64, error)
	CountPendingRequestTokens(ctx context.Context, window time.Duration, authorized bool) (int64, error)
}
