package dasha

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/jyotish-engine/internal/config"
	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	domainDasha "github.com/turtacn/jyotish-engine/internal/domain/dasha"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jyotish-engine/internal/testutil"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// MockTimelineCache is a mock implementation of TimelineCache.
type MockTimelineCache struct {
	mock.Mock
}

func (m *MockTimelineCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	args := m.Called(ctx, key, dest, ttl, loader)
	return args.Error(0)
}

// loadThrough runs the loader and copies its value into dest the way the
// redis cache does.
func loadThrough(args mock.Arguments) {
	loader := args.Get(4).(func(context.Context) (interface{}, error))
	v, err := loader(context.Background())
	if err != nil {
		return
	}
	data, _ := json.Marshal(v)
	_ = json.Unmarshal(data, args.Get(2))
}

type fixture struct {
	svc     Service
	cfg     *config.Config
	logs    *observer.ObservedLogs
	metrics prom.MetricsCollector
}

func newFixture(t *testing.T, mutate func(*config.Config), opts ...Option) *fixture {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if mutate != nil {
		mutate(cfg)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)

	opts = append([]Option{
		WithMetrics(prom.NewEngineMetrics(collector)),
		WithClock(func() time.Time { return testutil.FixtureBirth.AddDate(1, 0, 0) }),
	}, opts...)
	svc, err := NewService(cfg, logging.NewLoggerFromCore(core), opts...)
	require.NoError(t, err)
	return &fixture{svc: svc, cfg: cfg, logs: logs, metrics: collector}
}

func (f *fixture) scrape(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.metrics.WriteText(&buf))
	return buf.String()
}

func TestNewService_RejectsBadConfig(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Engine.BalancePolicy = "stretch"
	_, err := NewService(cfg, logging.NewNopLogger())
	assert.Error(t, err)

	cfg.Engine.BalancePolicy = "clip"
	cfg.Sandhi.OrbFraction = 0.9
	_, err = NewService(cfg, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestPeriods(t *testing.T) {
	f := newFixture(t, nil)
	c := testutil.NatalChart(t)

	res, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c}})
	require.NoError(t, err)

	assert.Equal(t, c.Identity().String(), res.ChartID)
	assert.Equal(t, "vimshottari", res.System)
	assert.Equal(t, "clip", res.Policy)
	assert.Equal(t, "Moon", res.StartPoint.Lord)
	assert.InDelta(t, 0.375, res.StartPoint.Fraction, 1e-9)
	assert.Equal(t, calendar.Span{Years: 6, Months: 3}, res.Balance)
	assert.True(t, res.Start.Equal(testutil.FixtureBirth))

	require.Len(t, res.Periods, 9)
	assert.Equal(t, "Moon", res.Periods[0].Lord)
	assert.InDelta(t, 6.25, res.Periods[0].Years, 1e-9)
	assert.Equal(t, "Mars", res.Periods[1].Lord)
	assert.Equal(t, "Venus", res.Periods[8].Lord)
	assert.True(t, res.End.Equal(res.Periods[8].End))

	mars := res.Periods[1]
	require.Len(t, mars.Children, 9)
	assert.Equal(t, "Mars/Mars", mars.Children[0].Path)
	assert.True(t, mars.Children[0].Start.Equal(mars.Start))
	assert.True(t, mars.Children[8].End.Equal(mars.End))
	require.Len(t, mars.Children[0].Children, 9)
	assert.Empty(t, mars.Children[0].Children[0].Children)

	text := f.scrape(t)
	assert.Contains(t, text, `test_unit_computations_total{op="periods",status="success",system="vimshottari"} 1`)
	assert.Contains(t, text, `test_unit_applicability_checks_total{applicable="true",system="vimshottari"} 1`)
	assert.Contains(t, text, `test_unit_timeline_nodes_count{system="vimshottari"} 1`)
}

func TestPeriods_ExplicitRequest(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{
		Chart: testutil.NatalChart(t), System: "Yogini", Cycles: 2, Depth: 1,
	}})
	require.NoError(t, err)
	assert.Equal(t, "yogini", res.System)
	require.Len(t, res.Periods, 16)
	assert.Empty(t, res.Periods[0].Children)
}

func TestPeriods_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	c := testutil.NatalChart(t)

	_, err := f.svc.Periods(context.Background(), &PeriodsInput{})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c, System: "kalachakra"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownSystem))

	_, err = f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c, Depth: 6}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPeriodRequest))

	_, err = f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c, Cycles: 11}})
	assert.Error(t, err)

	text := f.scrape(t)
	assert.Contains(t, text, `test_unit_errors_total{code="COMMON_002",op="periods"} 1`)
	assert.Contains(t, text, `test_unit_computations_total{op="periods",status="failure",system="vimshottari"} 3`)
	assert.Equal(t, 4, f.logs.FilterMessage("computation failed").Len())
}

func TestCurrent(t *testing.T) {
	f := newFixture(t, nil)
	c := testutil.NatalChart(t)

	t.Run("at instant", func(t *testing.T) {
		at := testutil.FixtureBirth.Add(24 * time.Hour)
		res, err := f.svc.Current(context.Background(), &CurrentInput{TimelineInput: TimelineInput{Chart: c}, At: at})
		require.NoError(t, err)
		assert.True(t, res.At.Equal(at))
		require.Len(t, res.Chain, 3)
		assert.Equal(t, "Moon", res.Chain[0].Lord)
		assert.Equal(t, "Mahadasha", res.Chain[0].Level)
		assert.Greater(t, res.Chain[0].Progress, 0.0)
		assert.Less(t, res.Chain[0].Progress, 1.0)
		assert.Greater(t, res.Chain[0].RemainingDays, 2000.0)
		assert.Empty(t, res.Chain[0].Children)
	})

	t.Run("at age", func(t *testing.T) {
		age := 10
		res, err := f.svc.Current(context.Background(), &CurrentInput{TimelineInput: TimelineInput{Chart: c}, Age: &age})
		require.NoError(t, err)
		assert.True(t, res.At.Equal(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "Mars", res.Chain[0].Lord)
	})

	t.Run("defaults to now", func(t *testing.T) {
		res, err := f.svc.Current(context.Background(), &CurrentInput{TimelineInput: TimelineInput{Chart: c}})
		require.NoError(t, err)
		assert.True(t, res.At.Equal(testutil.FixtureBirth.AddDate(1, 0, 0)))
	})

	t.Run("outside timeline", func(t *testing.T) {
		_, err := f.svc.Current(context.Background(), &CurrentInput{
			TimelineInput: TimelineInput{Chart: c},
			At:            testutil.FixtureBirth.AddDate(-1, 0, 0),
		})
		assert.True(t, errors.IsCode(err, errors.ErrCodePeriodOutOfRange))
	})
}

func TestSandhi(t *testing.T) {
	f := newFixture(t, nil)
	c := testutil.NatalChart(t)

	periods, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c}})
	require.NoError(t, err)
	boundary := periods.Periods[0].End

	res, err := f.svc.Sandhi(context.Background(), &SandhiInput{TimelineInput: TimelineInput{Chart: c}, AsOf: boundary})
	require.NoError(t, err)
	assert.Equal(t, "Mahadasha", res.Level)
	require.Len(t, res.Windows, 1)

	w := res.Windows[0]
	assert.Equal(t, "Moon", w.From)
	assert.Equal(t, "Mars", w.To)
	assert.True(t, w.Boundary.Equal(boundary))
	assert.Equal(t, "peak", w.Intensity)
	assert.True(t, w.Active)
	assert.InDelta(t, 180, w.HalfWidthDays, 1e-6)
	assert.InDelta(t, 0, w.DistanceDays, 1e-6)

	assert.Contains(t, f.scrape(t), `test_unit_junctions_total{intensity="peak"} 1`)
}

func TestSandhi_SubLevel(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Sandhi(context.Background(), &SandhiInput{
		TimelineInput: TimelineInput{Chart: testutil.NatalChart(t)},
		AsOf:          testutil.FixtureBirth.AddDate(3, 0, 0),
		Level:         2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Antardasha", res.Level)
	assert.NotEmpty(t, res.Windows)
	for _, w := range res.Windows {
		assert.Contains(t, w.From, "/")
	}
}

func TestApplicable(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Applicable(context.Background(), testutil.NatalChart(t))
	require.NoError(t, err)
	require.Len(t, res, 3)
	for _, r := range res {
		assert.True(t, r.Applicable, r.System)
		assert.NotEmpty(t, r.Reason)
	}

	res, err = f.svc.Applicable(context.Background(), testutil.RahuRisingChart(t))
	require.NoError(t, err)
	assert.Equal(t, "ashtottari", res[1].System)
	assert.False(t, res[1].Applicable)
	assert.Contains(t, res[1].Reason, "ascendant")

	_, err = f.svc.Applicable(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.Contains(t, f.scrape(t), `test_unit_applicability_checks_total{applicable="false",system="ashtottari"} 1`)
}

func TestApplicability_Enforcement(t *testing.T) {
	c := testutil.RahuRisingChart(t)
	in := &PeriodsInput{TimelineInput{Chart: c, System: "ashtottari"}}

	strict := newFixture(t, func(cfg *config.Config) { cfg.Engine.EnforceApplicability = true })
	_, err := strict.svc.Periods(context.Background(), in)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSystemNotApplicable))
	assert.Contains(t, strict.scrape(t), `test_unit_errors_total{code="DASHA_004",op="periods"} 1`)

	lenient := newFixture(t, nil)
	res, err := lenient.svc.Periods(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ashtottari", res.System)
	warned := lenient.logs.FilterMessage("System not applicable to chart").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "dasha", warned[0].LoggerName)
}

func TestTimeline_Cached(t *testing.T) {
	cache := new(MockTimelineCache)
	f := newFixture(t, nil, WithCache(cache))
	c := testutil.NatalChart(t)

	key := TimelineKey(c, domainDasha.Vimshottari, 1, domainDasha.Pratyantardasha, domainDasha.BalanceClip)
	cache.On("GetOrSet", mock.Anything, key, mock.AnythingOfType("*dasha.Snapshot"), time.Duration(0), mock.Anything).
		Run(loadThrough).Return(nil).Once()

	res, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c}})
	require.NoError(t, err)
	require.Len(t, res.Periods, 9)
	assert.Equal(t, "Moon", res.Periods[0].Lord)
	cache.AssertExpectations(t)
}

// memoryCache stores JSON-encoded values by key, like the redis cache.
type memoryCache struct {
	data map[string][]byte
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, dest interface{}, _ time.Duration, loader func(context.Context) (interface{}, error)) error {
	if raw, ok := m.data[key]; ok {
		return json.Unmarshal(raw, dest)
	}
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return json.Unmarshal(raw, dest)
}

func TestTimeline_CachedPerBirthZone(t *testing.T) {
	cache := &memoryCache{data: map[string][]byte{}}
	f := newFixture(t, nil, WithCache(cache))
	ist := time.FixedZone("IST", 5*3600+30*60)

	utc := testutil.NatalChart(t)
	local, err := testutil.NatalBuilderAt(testutil.FixtureBirth.In(ist), 290).Build()
	require.NoError(t, err)
	require.NotEqual(t, utc.Identity(), local.Identity())

	// The second local request is served from the cache.
	for _, c := range []*chart.Chart{utc, local, local} {
		res, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: c}})
		require.NoError(t, err)
		assert.Equal(t, c.Birth().Format(time.RFC3339), res.Start.Format(time.RFC3339))
		assert.Equal(t, c.Birth().Location(), res.Start.Location())
		assert.Equal(t, c.Birth().Location(), res.Periods[0].Start.Location())
	}
	assert.Len(t, cache.data, 2)

	age := 10
	cur, err := f.svc.Current(context.Background(), &CurrentInput{TimelineInput: TimelineInput{Chart: local}, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "2010-01-01T05:30:00+05:30", cur.At.Format(time.RFC3339))
	assert.Equal(t, "IST", cur.At.Location().String())
}

func TestTimeline_CorruptSnapshotIsRecomputed(t *testing.T) {
	cache := new(MockTimelineCache)
	f := newFixture(t, nil, WithCache(cache))

	cache.On("GetOrSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			snap := args.Get(2).(*domainDasha.Snapshot)
			snap.Depth = domainDasha.Mahadasha
		}).Return(nil).Once()

	res, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: testutil.NatalChart(t)}})
	require.NoError(t, err)
	assert.Len(t, res.Periods, 9)
	assert.Equal(t, 1, f.logs.FilterMessage("Discarding cached timeline").Len())
	cache.AssertExpectations(t)
}

func TestTimeline_CacheError(t *testing.T) {
	cache := new(MockTimelineCache)
	f := newFixture(t, nil, WithCache(cache))
	boom := errors.New(errors.ErrCodeCacheError, "boom")
	cache.On("GetOrSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)

	_, err := f.svc.Periods(context.Background(), &PeriodsInput{TimelineInput{Chart: testutil.NatalChart(t)}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
}

func TestTimelineKey(t *testing.T) {
	c := testutil.NatalChart(t)
	key := TimelineKey(c, domainDasha.Yogini, 2, domainDasha.Antardasha, domainDasha.BalanceScale)
	assert.Equal(t, "timeline:"+c.Identity().String()+":yogini:c2:d2:scale", key)
}

//Personal.AI order the ending
