package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	// Use unique namespace to avoid conflicts with other tests
	m := NewMetrics("test_publication_service_new")

	assert.NotNil(t, m.ChecksTotal)
	assert.NotNil(t, m.CheckDuration)
	assert.NotNil(t, m.CheckCandidates)
	assert.NotNil(t, m.PublicationsCreated)
	assert.NotNil(t, m.PublicationsRejected)
	assert.NotNil(t, m.SimilarityComputations)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
}

func TestRecordCheck(t *testing.T) {
	m := NewMetrics("test_record_check")

	m.RecordCheck("no_conflict", 3, 0.004)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ChecksTotal.WithLabelValues("no_conflict")))

	// Check duration histogram
	histCount, err := getHistogramSampleCount(m.CheckDuration)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)

	// Candidate count histogram
	histCount, err = getHistogramSampleCount(m.CheckCandidates)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordCheck_StatusLabels(t *testing.T) {
	m := NewMetrics("test_record_check_labels")

	m.RecordCheck("no_conflict", 0, 0.001)
	m.RecordCheck("same_title_same_venue_same_authors", 5, 0.010)
	m.RecordCheck("same_title_same_venue_same_authors", 2, 0.008)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ChecksTotal.WithLabelValues("no_conflict")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ChecksTotal.WithLabelValues("same_title_same_venue_same_authors")))
}

func TestRecordPublicationCreated(t *testing.T) {
	m := NewMetrics("test_publication_created")

	initial := testutil.ToFloat64(m.PublicationsCreated)
	m.RecordPublicationCreated()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.PublicationsCreated))
}

func TestRecordPublicationRejected(t *testing.T) {
	m := NewMetrics("test_publication_rejected")

	initial := testutil.ToFloat64(m.PublicationsRejected)
	m.RecordPublicationRejected()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.PublicationsRejected))
}

func TestRecordSimilarityComputation(t *testing.T) {
	m := NewMetrics("test_similarity_computation")

	initial := testutil.ToFloat64(m.SimilarityComputations)
	m.RecordSimilarityComputation()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SimilarityComputations))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics("test_http_request")

	m.RecordHTTPRequest("POST", "/api/v1/publications/check", "200", 0.05)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/publications/check", "200")))
}

// Helper to get histogram sample count
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
