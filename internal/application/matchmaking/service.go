// Package matchmaking provides the application-level compatibility service:
// guna scoring, Manglik assessment and the combined couple verdict.
package matchmaking

import (
	"context"
	"time"

	"github.com/turtacn/jyotish-engine/internal/config"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	domainMatch "github.com/turtacn/jyotish-engine/internal/domain/matchmaking"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Service defines the compatibility operations.
type Service interface {
	Score(ctx context.Context, input *PairInput) (*ScoreResult, error)
	Manglik(ctx context.Context, c *chart.Chart) (*ManglikResult, error)
	Match(ctx context.Context, input *PairInput) (*MatchResult, error)
}

// PairInput names the two charts of a couple.
type PairInput struct {
	Groom *chart.Chart
	Bride *chart.Chart
}

func (in *PairInput) validate() error {
	if in == nil || in.Groom == nil || in.Bride == nil {
		return errors.InvalidParam("groom and bride charts are required")
	}
	return nil
}

type serviceImpl struct {
	assessor *domainMatch.ManglikAssessor
	metrics  *prom.EngineMetrics
	logger   logging.Logger
}

// Option configures the service.
type Option func(*serviceImpl)

func WithMetrics(m *prom.EngineMetrics) Option {
	return func(s *serviceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService builds the service with the configured cancellation rules.
func NewService(cfg *config.Config, logger logging.Logger, opts ...Option) (Service, error) {
	assessor, err := domainMatch.NewManglikAssessor(cfg.Match.CancellationRules)
	if err != nil {
		return nil, err
	}
	s := &serviceImpl{
		assessor: assessor,
		metrics:  prom.NewNopEngineMetrics(),
		logger:   logger.Named("match"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Debug("Manglik rules enabled", logging.Any("rules", assessor.Rules()))
	return s, nil
}

func (s *serviceImpl) Score(ctx context.Context, input *PairInput) (res *ScoreResult, err error) {
	start := time.Now()
	defer func() { s.observe("score", start, err) }()

	if err := input.validate(); err != nil {
		return nil, err
	}
	return s.score(input)
}

func (s *serviceImpl) Manglik(ctx context.Context, c *chart.Chart) (res *ManglikResult, err error) {
	start := time.Now()
	defer func() { s.observe("manglik", start, err) }()

	if c == nil {
		return nil, errors.InvalidParam("chart is required")
	}
	return s.manglik(c)
}

func (s *serviceImpl) Match(ctx context.Context, input *PairInput) (res *MatchResult, err error) {
	start := time.Now()
	defer func() { s.observe("match", start, err) }()

	if err := input.validate(); err != nil {
		return nil, err
	}
	score, err := s.score(input)
	if err != nil {
		return nil, err
	}
	groom, err := s.manglik(input.Groom)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetCode(err), "groom manglik assessment failed")
	}
	bride, err := s.manglik(input.Bride)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetCode(err), "bride manglik assessment failed")
	}
	decision := domainMatch.PairDecision(groom.effective, bride.effective)
	s.logger.Info("Match evaluated",
		logging.String("rating", score.Rating),
		logging.String("manglik_decision", decision.String()))
	return &MatchResult{
		Compatibility:   score,
		Groom:           groom,
		Bride:           bride,
		ManglikDecision: decision.String(),
	}, nil
}

func (s *serviceImpl) score(input *PairInput) (*ScoreResult, error) {
	groom := domainMatch.ProfileFromChart(input.Groom)
	bride := domainMatch.ProfileFromChart(input.Bride)
	r, err := domainMatch.Score(groom, bride)
	if err != nil {
		return nil, err
	}
	prom.RecordMatch(s.metrics, r.TotalObtained.InexactFloat64(), r.Rating.String())
	return toScoreResult(input, groom, bride, r), nil
}

func (s *serviceImpl) manglik(c *chart.Chart) (*ManglikResult, error) {
	a, err := s.assessor.Assess(c)
	if err != nil {
		return nil, err
	}
	prom.RecordManglik(s.metrics, a.EffectiveSeverity.String())
	return toManglikResult(c, a), nil
}

func (s *serviceImpl) observe(op string, start time.Time, err error) {
	logging.LogComputation(s.logger, op, start, err)
	prom.RecordComputation(s.metrics, op, "match", time.Since(start), err)
}

//Personal.AI order the ending
