package metrics

import (
	"time"

	"github.com/go-authgate/oauth1gate/internal/core"
)

// NoopMetrics is a no-operation implementation of core.Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ core.Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordRequestTokenIssued(variant string, success bool)     {}
func (n *NoopMetrics) RecordAuthorizationDecision(decision string)               {}
func (n *NoopMetrics) RecordTokenExchange(result string, duration time.Duration) {}
func (n *NoopMetrics) RecordTokenRevoked()                                       {}
func (n *NoopMetrics) RecordGuardResult(result string, duration time.Duration)   {}
func (n *NoopMetrics) RecordSignatureFailure(reason string)                      {}
func (n *NoopMetrics) RecordLogin(success bool)                                  {}
func (n *NoopMetrics) RecordLogout(sessionDuration time.Duration)                {}
func (n *NoopMetrics) SetActiveAccessTokensCount(count int)                      {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                 {}

func (n *NoopMetrics) SetPendingRequestTokensCount(
	awaitingDecision, awaitingExchange int,
) {
}
