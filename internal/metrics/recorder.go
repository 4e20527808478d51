package metrics

import (
	"time"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultFailure = "failure"
)

// RecordRequestTokenIssued records a request token issuance attempt
func (m *Metrics) RecordRequestTokenIssued(variant string, success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.RequestTokensIssuedTotal.WithLabelValues(variant, result).Inc()
	if success {
		m.RequestTokensPending.WithLabelValues("decision").Inc()
	}
}

// RecordAuthorizationDecision records approved, denied or rejected decisions
func (m *Metrics) RecordAuthorizationDecision(decision string) {
	m.AuthorizationDecisionsTotal.WithLabelValues(decision).Inc()
	switch decision {
	case "approved":
		m.RequestTokensPending.WithLabelValues("decision").Dec()
		m.RequestTokensPending.WithLabelValues("exchange").Inc()
	case "denied":
		m.RequestTokensPending.WithLabelValues("decision").Dec()
	}
}

// RecordTokenExchange records the outcome of an access token exchange
func (m *Metrics) RecordTokenExchange(result string, duration time.Duration) {
	m.TokenExchangesTotal.WithLabelValues(result).Inc()
	m.TokenExchangeDuration.Observe(duration.Seconds())
	if result == resultSuccess {
		m.RequestTokensPending.WithLabelValues("exchange").Dec()
		m.AccessTokensActive.Inc()
	}
}

// RecordTokenRevoked records an access token revocation
func (m *Metrics) RecordTokenRevoked() {
	m.TokensRevokedTotal.Inc()
	m.AccessTokensActive.Dec()
}

// RecordGuardResult records a protected resource access check
func (m *Metrics) RecordGuardResult(result string, duration time.Duration) {
	m.GuardChecksTotal.WithLabelValues(result).Inc()
	m.GuardCheckDuration.Observe(duration.Seconds())
}

// RecordSignatureFailure records why a signed request was rejected
func (m *Metrics) RecordSignatureFailure(reason string) {
	m.SignatureFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordLogin records login attempt
func (m *Metrics) RecordLogin(success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthLoginTotal.WithLabelValues(result).Inc()
}

// RecordLogout records logout
func (m *Metrics) RecordLogout(sessionDuration time.Duration) {
	m.AuthLogoutTotal.Inc()
	m.SessionDuration.Observe(sessionDuration.Seconds())
}

// SetActiveAccessTokensCount sets the current count of active access tokens (for periodic updates)
func (m *Metrics) SetActiveAccessTokensCount(count int) {
	m.AccessTokensActive.Set(float64(count))
}

// SetPendingRequestTokensCount sets the pending request token gauges (for periodic updates)
func (m *Metrics) SetPendingRequestTokensCount(awaitingDecision, awaitingExchange int) {
	m.RequestTokensPending.WithLabelValues("decision").Set(float64(awaitingDecision))
	m.RequestTokensPending.WithLabelValues("exchange").Set(float64(awaitingExchange))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
