package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoutnotes",
			Name:      "retrieval_requests_total",
			Help:      "Total number of hybrid retrieval requests",
		},
		[]string{"status"}, // "ok" / "degraded" / "error"
	)

	RetrievalPhaseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoutnotes",
			Name:      "retrieval_phase_failures_total",
			Help:      "Retrieval phase failures by phase",
		},
		[]string{"phase"}, // "lexical" / "semantic"
	)

	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scoutnotes",
			Name:      "retrieval_duration_seconds",
			Help:      "Hybrid retrieval duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	RetrievalCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scoutnotes",
			Name:      "retrieval_candidates",
			Help:      "Number of fused candidates before truncation",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalPhaseFailures)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalCandidates)
	retrievalMetricsRegistered = true
}
