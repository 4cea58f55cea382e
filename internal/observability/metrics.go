package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the publication service.
// Metrics are organized by subsystem: duplicate checks, publications, and
// HTTP requests. All counters and histograms are registered via promauto
// for automatic registration with the default Prometheus registry.
type Metrics struct {
	// ChecksTotal counts duplicate checks performed, labeled by resulting status.
	ChecksTotal *prometheus.CounterVec

	// CheckDuration observes the end-to-end duration of duplicate checks in seconds.
	CheckDuration prometheus.Histogram

	// CheckCandidates observes the number of pre-filtered candidates compared per check.
	CheckCandidates prometheus.Histogram

	// PublicationsCreated counts publications stored successfully.
	PublicationsCreated prometheus.Counter

	// PublicationsRejected counts publication creations rejected as duplicates.
	PublicationsRejected prometheus.Counter

	// SimilarityComputations counts standalone similarity score computations.
	SimilarityComputations prometheus.Counter

	// HTTPRequestsTotal counts HTTP requests, labeled by method, path, and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request duration in seconds, labeled by method and path.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Duplicate checks
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total number of duplicate checks by resulting status",
		}, []string{"status"}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of duplicate checks in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		CheckCandidates: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_candidates",
			Help:      "Number of candidate publications compared per duplicate check",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),

		// Publications
		PublicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publications_created_total",
			Help:      "Total number of publications created",
		}),
		PublicationsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publications_rejected_total",
			Help:      "Total number of publication creations rejected as duplicates",
		}),
		SimilarityComputations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "similarity_computations_total",
			Help:      "Total number of standalone similarity computations",
		}),

		// HTTP
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "path"}),
	}
}

// RecordCheck records a completed duplicate check.
func (m *Metrics) RecordCheck(status string, candidates int, durationSeconds float64) {
	m.ChecksTotal.WithLabelValues(status).Inc()
	m.CheckDuration.Observe(durationSeconds)
	m.CheckCandidates.Observe(float64(candidates))
}

// RecordPublicationCreated records a publication stored successfully.
func (m *Metrics) RecordPublicationCreated() {
	m.PublicationsCreated.Inc()
}

// RecordPublicationRejected records a publication rejected as a duplicate.
func (m *Metrics) RecordPublicationRejected() {
	m.PublicationsRejected.Inc()
}

// RecordSimilarityComputation records a standalone similarity computation.
func (m *Metrics) RecordSimilarityComputation() {
	m.SimilarityComputations.Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}
