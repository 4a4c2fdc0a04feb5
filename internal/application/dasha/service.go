// Package dasha provides the application-level service for period timelines.
// It resolves request defaults from configuration, enforces system
// applicability and routes computations through the optional timeline cache.
package dasha

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/jyotish-engine/internal/config"
	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	domainDasha "github.com/turtacn/jyotish-engine/internal/domain/dasha"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Service defines the period timeline operations.
type Service interface {
	Periods(ctx context.Context, input *PeriodsInput) (*PeriodsResult, error)
	Current(ctx context.Context, input *CurrentInput) (*CurrentResult, error)
	Sandhi(ctx context.Context, input *SandhiInput) (*SandhiResult, error)
	Applicable(ctx context.Context, c *chart.Chart) ([]*ApplicabilityResult, error)
}

// TimelineCache stores computed timelines.  The redis cache satisfies it.
type TimelineCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

// TimelineInput selects a timeline.  Zero values fall back to the engine
// configuration.
type TimelineInput struct {
	Chart  *chart.Chart
	System string
	Cycles int
	Depth  int
}

// PeriodsInput contains input for listing a full timeline.
type PeriodsInput struct {
	TimelineInput
}

// CurrentInput contains input for the running periods at an instant.  Age,
// when set, selects the birthday at that age instead of At; a zero At means
// now.
type CurrentInput struct {
	TimelineInput
	At  time.Time
	Age *int
}

// SandhiInput contains input for junction detection.  A zero Level uses the
// configured junction level; a zero AsOf means now.
type SandhiInput struct {
	TimelineInput
	AsOf  time.Time
	Level int
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	engine  *domainDasha.Engine
	cfg     config.EngineConfig
	policy  domainDasha.JunctionPolicy
	cache   TimelineCache
	metrics *prom.EngineMetrics
	logger  logging.Logger
	now     func() time.Time
}

// Option configures the service.
type Option func(*serviceImpl)

// WithCache routes timeline computations through c.
func WithCache(c TimelineCache) Option {
	return func(s *serviceImpl) { s.cache = c }
}

func WithMetrics(m *prom.EngineMetrics) Option {
	return func(s *serviceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock replaces time.Now for default instants.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// NewService builds the service from a validated configuration.
func NewService(cfg *config.Config, logger logging.Logger, opts ...Option) (Service, error) {
	balance, err := domainDasha.ParseBalancePolicy(cfg.Engine.BalancePolicy)
	if err != nil {
		return nil, err
	}
	policy := JunctionPolicyFromConfig(cfg.Sandhi)
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	s := &serviceImpl{
		engine: domainDasha.NewEngine(
			domainDasha.WithMaxCycles(cfg.Engine.MaxCycles),
			domainDasha.WithMaxDepth(domainDasha.Level(cfg.Engine.MaxDepth)),
			domainDasha.WithBalancePolicy(balance),
		),
		cfg:     cfg.Engine,
		policy:  policy,
		metrics: prom.NewNopEngineMetrics(),
		logger:  logger.Named("dasha"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// JunctionPolicyFromConfig maps the sandhi section onto a JunctionPolicy.
func JunctionPolicyFromConfig(c config.SandhiConfig) domainDasha.JunctionPolicy {
	return domainDasha.JunctionPolicy{
		OrbDays:     c.OrbDays,
		OrbFraction: c.OrbFraction,
		Lookback:    time.Duration(c.LookbackDays) * 24 * time.Hour,
		Lookahead:   time.Duration(c.LookaheadDays) * 24 * time.Hour,
		Level:       domainDasha.Level(c.Level),
		PeakRatio:   c.PeakRatio,
		StrongRatio: c.StrongRatio,
		MildRatio:   c.MildRatio,
	}
}

// TimelineKeyPrefix prefixes every timeline cache key.
const TimelineKeyPrefix = "timeline:"

// ChartKeyPrefix prefixes the cache keys of every timeline of c.
func ChartKeyPrefix(c *chart.Chart) string {
	return TimelineKeyPrefix + c.Identity().String() + ":"
}

// TimelineKey is the cache key of one timeline request.
func TimelineKey(c *chart.Chart, s domainDasha.System, cycles int, depth domainDasha.Level, p domainDasha.BalancePolicy) string {
	return fmt.Sprintf("%s%s:c%d:d%d:%s", ChartKeyPrefix(c), s, cycles, depth, p)
}

func (s *serviceImpl) Periods(ctx context.Context, input *PeriodsInput) (res *PeriodsResult, err error) {
	start := time.Now()
	defer func() { s.observe("periods", input.System, start, err) }()

	tl, sys, err := s.timeline(ctx, input.TimelineInput)
	if err != nil {
		return nil, err
	}
	sp := tl.StartPoint()
	res = &PeriodsResult{
		ChartID: input.Chart.Identity().String(),
		System:  string(sys),
		Policy:  s.engine.Policy().String(),
		StartPoint: StartPoint{
			Lord:     tl.Table().Entries[sp.Index].Name(),
			Fraction: sp.Fraction,
		},
		Balance: tl.BalanceAtBirth(),
		Start:   tl.Start(),
		End:     tl.End(),
		Periods: make([]*Period, 0, len(tl.Top())),
	}
	for _, p := range tl.Top() {
		res.Periods = append(res.Periods, toPeriod(p, true))
	}
	return res, nil
}

func (s *serviceImpl) Current(ctx context.Context, input *CurrentInput) (res *CurrentResult, err error) {
	start := time.Now()
	defer func() { s.observe("current", input.System, start, err) }()

	tl, sys, err := s.timeline(ctx, input.TimelineInput)
	if err != nil {
		return nil, err
	}
	at := input.At
	if input.Age != nil {
		if at, err = calendar.AtAge(tl.Birth(), *input.Age); err != nil {
			return nil, err
		}
	} else if at.IsZero() {
		at = s.now()
	}
	chain, err := tl.Current(at)
	if err != nil {
		return nil, err
	}
	res = &CurrentResult{
		ChartID: input.Chart.Identity().String(),
		System:  string(sys),
		At:      at,
		Chain:   make([]*ActivePeriod, 0, len(chain)),
	}
	for _, p := range chain {
		res.Chain = append(res.Chain, &ActivePeriod{
			Period:        *toPeriod(p, false),
			Progress:      p.Progress(at),
			RemainingDays: p.Remaining(at).Hours() / 24,
		})
	}
	return res, nil
}

func (s *serviceImpl) Sandhi(ctx context.Context, input *SandhiInput) (res *SandhiResult, err error) {
	start := time.Now()
	defer func() { s.observe("sandhi", input.System, start, err) }()

	policy := s.policy
	if input.Level != 0 {
		policy.Level = domainDasha.Level(input.Level)
	}
	in := input.TimelineInput
	if in.Depth == 0 {
		in.Depth = int(policy.Level)
	}
	tl, sys, err := s.timeline(ctx, in)
	if err != nil {
		return nil, err
	}
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	windows, err := domainDasha.DetectJunctions(tl, policy, asOf)
	if err != nil {
		return nil, err
	}
	res = &SandhiResult{
		ChartID: input.Chart.Identity().String(),
		System:  string(sys),
		AsOf:    asOf,
		Level:   policy.Level.String(),
		Windows: make([]*Junction, 0, len(windows)),
	}
	for _, w := range windows {
		prom.RecordJunction(s.metrics, w.Intensity.String())
		res.Windows = append(res.Windows, toJunction(w))
	}
	return res, nil
}

func (s *serviceImpl) Applicable(ctx context.Context, c *chart.Chart) (res []*ApplicabilityResult, err error) {
	start := time.Now()
	defer func() { s.observe("applicable", "all", start, err) }()

	if c == nil {
		return nil, errors.InvalidParam("chart is required")
	}
	for _, sys := range domainDasha.Systems() {
		a, err := domainDasha.IsApplicable(sys, c)
		if err != nil {
			return nil, err
		}
		prom.RecordApplicability(s.metrics, string(sys), a.Applicable)
		res = append(res, &ApplicabilityResult{System: string(sys), Applicable: a.Applicable, Reason: a.Reason})
	}
	return res, nil
}

// resolve fills request defaults from configuration.
func (s *serviceImpl) resolve(in TimelineInput) (domainDasha.System, int, domainDasha.Level, error) {
	if in.Chart == nil {
		return "", 0, 0, errors.InvalidParam("chart is required")
	}
	name := in.System
	if name == "" {
		name = s.cfg.DefaultSystem
	}
	sys, err := domainDasha.ParseSystem(name)
	if err != nil {
		return "", 0, 0, err
	}
	cycles := in.Cycles
	if cycles == 0 {
		cycles = s.cfg.DefaultCycles
	}
	depth := in.Depth
	if depth == 0 {
		depth = s.cfg.DefaultDepth
	}
	if depth < 0 || depth > int(domainDasha.MaxLevel) {
		return "", 0, 0, errors.New(errors.ErrCodeInvalidPeriodRequest, "depth out of range").
			WithDetail(fmt.Sprintf("depth=%d", depth))
	}
	return sys, cycles, domainDasha.Level(depth), nil
}

// timeline returns the requested timeline from the cache or the engine.
func (s *serviceImpl) timeline(ctx context.Context, in TimelineInput) (*domainDasha.Timeline, domainDasha.System, error) {
	sys, cycles, depth, err := s.resolve(in)
	if err != nil {
		return nil, "", err
	}
	if err := s.checkApplicable(sys, in.Chart); err != nil {
		return nil, sys, err
	}

	compute := func() (*domainDasha.Timeline, error) {
		tl, err := s.engine.ComputeFor(sys, in.Chart, cycles, depth)
		if err != nil {
			return nil, err
		}
		prom.RecordTimeline(s.metrics, string(sys), tl.Len())
		return tl, nil
	}
	if s.cache == nil {
		tl, err := compute()
		return tl, sys, err
	}

	key := TimelineKey(in.Chart, sys, cycles, depth, s.engine.Policy())
	var snap domainDasha.Snapshot
	err = s.cache.GetOrSet(ctx, key, &snap, 0, func(context.Context) (interface{}, error) {
		tl, err := compute()
		if err != nil {
			return nil, err
		}
		return tl.Snapshot(), nil
	})
	if err != nil {
		return nil, sys, err
	}
	tl, err := domainDasha.Restore(snap)
	if err != nil {
		s.logger.WithError(err).Warn("Discarding cached timeline", logging.String("key", key))
		tl, err = compute()
		return tl, sys, err
	}
	// Decoding keeps only the offset; report instants in the chart's own zone.
	return tl.In(in.Chart.Birth().Location()), sys, nil
}

// checkApplicable rejects a conditional system whose rule fails when
// enforcement is on, and only warns otherwise.
func (s *serviceImpl) checkApplicable(sys domainDasha.System, c *chart.Chart) error {
	a, err := domainDasha.IsApplicable(sys, c)
	if err != nil {
		return err
	}
	prom.RecordApplicability(s.metrics, string(sys), a.Applicable)
	if a.Applicable {
		return nil
	}
	if s.cfg.EnforceApplicability {
		return errors.NotApplicable(string(sys) + " dasha does not apply to this chart").WithDetail(a.Reason)
	}
	s.logger.Warn("System not applicable to chart", logging.String("system", string(sys)), logging.String("reason", a.Reason))
	return nil
}

func (s *serviceImpl) observe(op, system string, start time.Time, err error) {
	if system == "" {
		system = s.cfg.DefaultSystem
	}
	logging.LogComputation(s.logger, op, start, err, logging.String("system", system))
	prom.RecordComputation(s.metrics, op, system, time.Since(start), err)
}

//Personal.AI order the ending
