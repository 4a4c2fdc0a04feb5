package prometheus

import (
	"time"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// EngineMetrics holds every metric the engine records.
type EngineMetrics struct {
	// Computation
	ComputationsTotal   CounterVec
	ComputationDuration HistogramVec
	TimelineNodes       HistogramVec
	ErrorsTotal         CounterVec

	// Dasha
	JunctionsTotal      CounterVec
	ApplicabilityChecks CounterVec

	// Matchmaking
	MatchScore        HistogramVec
	MatchRatingsTotal CounterVec
	ManglikTotal      CounterVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
}

// Default Buckets
var (
	DefaultComputeDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultNodeCountBuckets       = []float64{10, 100, 1000, 10000, 100000, 1000000}
	DefaultMatchScoreBuckets      = []float64{6, 12, 18, 21, 25, 28, 33, 36}
)

// NewEngineMetrics registers all metrics on collector.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	m := &EngineMetrics{}

	m.ComputationsTotal = collector.RegisterCounter("computations_total", "Engine computations by operation and outcome", "op", "system", "status")
	m.ComputationDuration = collector.RegisterHistogram("computation_duration_seconds", "Engine computation duration", DefaultComputeDurationBuckets, "op", "system")
	m.TimelineNodes = collector.RegisterHistogram("timeline_nodes", "Periods per computed timeline", DefaultNodeCountBuckets, "system")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Failed computations by error code", "op", "code")

	m.JunctionsTotal = collector.RegisterCounter("junctions_total", "Detected junction windows by intensity", "intensity")
	m.ApplicabilityChecks = collector.RegisterCounter("applicability_checks_total", "Conditional system checks", "system", "applicable")

	m.MatchScore = collector.RegisterHistogram("match_score_points", "Total compatibility points", DefaultMatchScoreBuckets)
	m.MatchRatingsTotal = collector.RegisterCounter("match_ratings_total", "Compatibility ratings", "rating")
	m.ManglikTotal = collector.RegisterCounter("manglik_assessments_total", "Manglik assessments by effective severity", "severity")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	return m
}

// NewNopEngineMetrics returns metrics that record nothing.
func NewNopEngineMetrics() *EngineMetrics { return NewEngineMetrics(NewNopCollector()) }

// Helpers

// RecordComputation counts one operation and, on failure, its error code.
func RecordComputation(metrics *EngineMetrics, op, system string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
		metrics.ErrorsTotal.WithLabelValues(op, string(errors.GetCode(err))).Inc()
	}
	metrics.ComputationsTotal.WithLabelValues(op, system, status).Inc()
	metrics.ComputationDuration.WithLabelValues(op, system).Observe(duration.Seconds())
}

func RecordTimeline(metrics *EngineMetrics, system string, nodes int) {
	metrics.TimelineNodes.WithLabelValues(system).Observe(float64(nodes))
}

func RecordJunction(metrics *EngineMetrics, intensity string) {
	metrics.JunctionsTotal.WithLabelValues(intensity).Inc()
}

func RecordApplicability(metrics *EngineMetrics, system string, applicable bool) {
	label := "false"
	if applicable {
		label = "true"
	}
	metrics.ApplicabilityChecks.WithLabelValues(system, label).Inc()
}

func RecordMatch(metrics *EngineMetrics, points float64, rating string) {
	metrics.MatchScore.WithLabelValues().Observe(points)
	metrics.MatchRatingsTotal.WithLabelValues(rating).Inc()
}

func RecordManglik(metrics *EngineMetrics, severity string) {
	metrics.ManglikTotal.WithLabelValues(severity).Inc()
}

func RecordCacheAccess(metrics *EngineMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

//Personal.AI order the ending
