package prometheus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

func newTestEngineMetrics(t *testing.T) (*EngineMetrics, MetricsCollector) {
	c := newTestCollector(t)
	m := NewEngineMetrics(c)
	require.NotNil(t, m)
	return m, c
}

func TestRecordComputation_Success(t *testing.T) {
	m, c := newTestEngineMetrics(t)

	RecordComputation(m, "periods", "vimshottari", 2*time.Millisecond, nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_computations_total{op="periods",status="success",system="vimshottari"} 1`)
	assert.Contains(t, output, `test_unit_computation_duration_seconds_count{op="periods",system="vimshottari"} 1`)
	assert.NotContains(t, output, "test_unit_errors_total")
}

func TestRecordComputation_FailureCountsCode(t *testing.T) {
	m, c := newTestEngineMetrics(t)

	err := errors.New(errors.ErrCodeSystemNotApplicable, "not applicable")
	RecordComputation(m, "periods", "ashtottari", time.Millisecond, err)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_computations_total{op="periods",status="failure",system="ashtottari"} 1`)
	assert.Contains(t, output, `test_unit_errors_total{code="DASHA_004",op="periods"} 1`)
}

func TestRecordMatch(t *testing.T) {
	m, c := newTestEngineMetrics(t)

	RecordMatch(m, 27.5, "Good")
	RecordManglik(m, "Mild")

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_match_score_points_sum 27.5")
	assert.Contains(t, output, `test_unit_match_ratings_total{rating="Good"} 1`)
	assert.Contains(t, output, `test_unit_manglik_assessments_total{severity="Mild"} 1`)
}

func TestRecordDashaHelpers(t *testing.T) {
	m, c := newTestEngineMetrics(t)

	RecordTimeline(m, "yogini", 512)
	RecordJunction(m, "Peak")
	RecordJunction(m, "Peak")
	RecordApplicability(m, "ashtottari", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_timeline_nodes_sum{system="yogini"} 512`)
	assert.Contains(t, output, `test_unit_junctions_total{intensity="Peak"} 2`)
	assert.Contains(t, output, `test_unit_applicability_checks_total{applicable="false",system="ashtottari"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestEngineMetrics(t)

	RecordCacheAccess(m, "timeline", true)
	RecordCacheAccess(m, "timeline", false)
	RecordCacheAccess(m, "timeline", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="timeline"} 1`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="timeline"} 2`)
}

func TestNopEngineMetrics(t *testing.T) {
	m := NewNopEngineMetrics()
	assert.NotPanics(t, func() {
		RecordComputation(m, "match", "", time.Second, errors.InvalidParam("x"))
		RecordMatch(m, 10, "Poor")
		RecordCacheAccess(m, "timeline", true)
	})
}

func TestConcurrentMetricRecording(t *testing.T) {
	m, c := newTestEngineMetrics(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordComputation(m, "current", "yogini", time.Microsecond, nil)
			}
		}()
	}
	wg.Wait()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_computations_total{op="current",status="success",system="yogini"} 1000`)
}

//Personal.AI order the ending
