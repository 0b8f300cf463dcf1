// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Discovery metrics
	SignaturesScanned  prometheus.Counter
	PoolsDetected      prometheus.Counter
	ExtractionFailures prometheus.Counter

	// Gatekeeper metrics
	RuleOutcomes *prometheus.CounterVec

	// Watchlist metrics
	HotAdds    prometheus.Counter
	HotRemoves *prometheus.CounterVec

	// Scoring and position metrics
	ScoresEvaluated *prometheus.CounterVec
	PositionsOpened *prometheus.CounterVec
	PositionsClosed *prometheus.CounterVec
	OpenPositions   prometheus.Gauge

	// Loop metrics
	CycleErrors   *prometheus.CounterVec
	CycleDuration *prometheus.HistogramVec

	// Transport metrics
	RPCCallLatency *prometheus.HistogramVec
	WSReconnects   prometheus.Counter
	HTTPCallErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "pool_sentinel"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		SignaturesScanned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "signatures_scanned_total",
			Help:      "Total number of new program signatures inspected",
		}),
		PoolsDetected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "pools_detected_total",
			Help:      "Total number of pool initializations detected",
		}),
		ExtractionFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "extraction_failures_total",
			Help:      "Total number of pool initializations whose accounts could not be extracted",
		}),

		RuleOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gatekeeper",
			Name:      "rule_outcomes_total",
			Help:      "Gatekeeper rule outcomes by rule and result",
		}, []string{"rule", "result"}),

		HotAdds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "hot_adds_total",
			Help:      "Total number of tokens added to the hot watchlist",
		}),
		HotRemoves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watchlist",
			Name:      "hot_removes_total",
			Help:      "Tokens removed from the hot watchlist by final status",
		}, []string{"status"}),

		ScoresEvaluated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trigger",
			Name:      "scores_evaluated_total",
			Help:      "ScoreX evaluations by category",
		}, []string{"category"}),
		PositionsOpened: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "position",
			Name:      "opened_total",
			Help:      "Simulated positions opened by category",
		}, []string{"category"}),
		PositionsClosed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "position",
			Name:      "closed_total",
			Help:      "Simulated positions closed by exit reason",
		}, []string{"reason"}),
		OpenPositions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "position",
			Name:      "open",
			Help:      "Number of open positions at the last monitor cycle",
		}),

		CycleErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "cycle_errors_total",
			Help:      "Failed or panicked loop cycles by loop",
		}, []string{"loop"}),
		CycleDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "cycle_duration_seconds",
			Help:      "Loop cycle duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"loop"}),

		RPCCallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WSReconnects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_reconnects_total",
			Help:      "Total number of successful WebSocket reconnects",
		}),
		HTTPCallErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "http_errors_total",
			Help:      "Failed market data calls by provider",
		}, []string{"provider"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordSignatureScanned increments the scanned signatures counter.
func RecordSignatureScanned() {
	DefaultMetrics.SignaturesScanned.Inc()
}

// RecordPoolDetected increments the detected pools counter.
func RecordPoolDetected() {
	DefaultMetrics.PoolsDetected.Inc()
}

// RecordExtractionFailure increments the extraction failure counter.
func RecordExtractionFailure() {
	DefaultMetrics.ExtractionFailures.Inc()
}

// RecordRuleOutcome records one gatekeeper rule result.
func RecordRuleOutcome(rule string, passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	DefaultMetrics.RuleOutcomes.WithLabelValues(rule, result).Inc()
}

// RecordHotAdd increments the hot watchlist adds counter.
func RecordHotAdd() {
	DefaultMetrics.HotAdds.Inc()
}

// RecordHotRemove records a hot watchlist removal with its final status.
func RecordHotRemove(status string) {
	DefaultMetrics.HotRemoves.WithLabelValues(status).Inc()
}

// RecordScore records a ScoreX evaluation.
func RecordScore(category string) {
	DefaultMetrics.ScoresEvaluated.WithLabelValues(category).Inc()
}

// RecordPositionOpened records an opened position.
func RecordPositionOpened(category string) {
	DefaultMetrics.PositionsOpened.WithLabelValues(category).Inc()
}

// RecordPositionClosed records a closed position.
func RecordPositionClosed(reason string) {
	DefaultMetrics.PositionsClosed.WithLabelValues(reason).Inc()
}

// SetOpenPositions updates the open positions gauge.
func SetOpenPositions(n int) {
	DefaultMetrics.OpenPositions.Set(float64(n))
}

// RecordCycle records a loop cycle duration and, if err is non-nil, an error.
func RecordCycle(loop string, seconds float64, err error) {
	DefaultMetrics.CycleDuration.WithLabelValues(loop).Observe(seconds)
	if err != nil {
		DefaultMetrics.CycleErrors.WithLabelValues(loop).Inc()
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordWSReconnect increments the WebSocket reconnect counter.
func RecordWSReconnect() {
	DefaultMetrics.WSReconnects.Inc()
}

// RecordHTTPError records a failed market data call.
func RecordHTTPError(provider string) {
	DefaultMetrics.HTTPCallErrors.WithLabelValues(provider).Inc()
}
