package metrics

import (
	"sync"

	"github.com/go-authgate/oauth1gate/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Token lifecycle
	RequestTokensIssuedTotal    *prometheus.CounterVec
	AuthorizationDecisionsTotal *prometheus.CounterVec
	TokenExchangesTotal         *prometheus.CounterVec
	TokenExchangeDuration       prometheus.Histogram
	TokensRevokedTotal          prometheus.Counter
	AccessTokensActive          prometheus.Gauge
	RequestTokensPending        *prometheus.GaugeVec

	// Signed requests
	GuardChecksTotal       *prometheus.CounterVec
	GuardCheckDuration     prometheus.Histogram
	SignatureFailuresTotal *prometheus.CounterVec

	// Authentication
	AuthLoginTotal  *prometheus.CounterVec
	AuthLogoutTotal prometheus.Counter
	SessionDuration prometheus.Histogram

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

var latencyBuckets = []float64{0.001, 0.005, 0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		RequestTokensIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth1_request_tokens_issued_total",
				Help: "Total number of request token issuance attempts",
			},
			[]string{"variant", "result"}, // variant: 1.0, 1.0a; result: success, error
		),
		AuthorizationDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth1_authorization_decisions_total",
				Help: "Total number of end-user decisions on request tokens",
			},
			[]string{"decision"}, // approved, denied, rejected
		),
		TokenExchangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth1_token_exchanges_total",
				Help: "Total number of request-for-access token exchanges",
			},
			[]string{"result"}, // success, bad_verifier, bad_signature, invalid_state, error
		),
		TokenExchangeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "oauth1_token_exchange_duration_seconds",
				Help:    "Time taken to exchange a request token",
				Buckets: latencyBuckets,
			},
		),
		TokensRevokedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "oauth1_tokens_revoked_total",
				Help: "Total number of access tokens revoked by their owner",
			},
		),
		AccessTokensActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "oauth1_access_tokens_active",
				Help: "Current number of active access tokens",
			},
		),
		RequestTokensPending: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oauth1_request_tokens_pending",
				Help: "Current number of recent request tokens not yet exchanged",
			},
			[]string{"awaiting"}, // decision, exchange
		),

		GuardChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth1_guard_checks_total",
				Help: "Total number of protected resource access checks",
			},
			[]string{"result"}, // ok, unauthorized, forbidden, error
		),
		GuardCheckDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "oauth1_guard_check_duration_seconds",
				Help:    "Time taken to check a signed API request",
				Buckets: latencyBuckets,
			},
		),
		SignatureFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oauth1_signature_failures_total",
				Help: "Total number of rejected signed requests",
			},
			[]string{"reason"}, // malformed, timestamp, nonce, signature, method
		),

		AuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),
		AuthLogoutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_logout_total",
				Help: "Total number of logouts",
			},
		),
		SessionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "session_duration_seconds",
				Help:    "Session duration in seconds",
				Buckets: []float64{60, 300, 600, 1800, 3600, 7200, 14400, 28800},
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: latencyBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_access_tokens, count_request_tokens
		),
	}
}
