// Package config provides configuration loading, defaults, and validation for
// the jyotish engine host.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultSystem        = "vimshottari"
	DefaultCycles        = 1
	DefaultDepth         = 3
	DefaultMaxCycles     = 10
	DefaultMaxDepth      = 5
	DefaultBalancePolicy = "clip"

	DefaultSandhiOrbDays       = 180.0
	DefaultSandhiOrbFraction   = 0.1
	DefaultSandhiLookbackDays  = 365
	DefaultSandhiLookaheadDays = 3 * 365
	DefaultSandhiLevel         = 1
	DefaultSandhiPeakRatio     = 0.25
	DefaultSandhiStrongRatio   = 0.5
	DefaultSandhiMildRatio     = 1.0

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "jyotish:"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "jyotish"
	DefaultMetricsSubsystem = "engine"
)

// DefaultCancellationRules is the classical evaluation order of the Manglik
// cancellation rules.
var DefaultCancellationRules = []string{
	"house_sign_exception",
	"mars_dignity",
	"jupiter_aspect",
	"moon_conjunction",
}

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields already set by the caller are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	if cfg.Engine.DefaultSystem == "" {
		cfg.Engine.DefaultSystem = DefaultSystem
	}
	if cfg.Engine.DefaultCycles == 0 {
		cfg.Engine.DefaultCycles = DefaultCycles
	}
	if cfg.Engine.DefaultDepth == 0 {
		cfg.Engine.DefaultDepth = DefaultDepth
	}
	if cfg.Engine.MaxCycles == 0 {
		cfg.Engine.MaxCycles = DefaultMaxCycles
	}
	if cfg.Engine.BalancePolicy == "" {
		cfg.Engine.BalancePolicy = DefaultBalancePolicy
	}
	if cfg.Engine.MaxDepth == 0 {
		cfg.Engine.MaxDepth = DefaultMaxDepth
	}

	// ── Sandhi ────────────────────────────────────────────────────────────────
	if cfg.Sandhi.OrbDays == 0 {
		cfg.Sandhi.OrbDays = DefaultSandhiOrbDays
	}
	if cfg.Sandhi.OrbFraction == 0 {
		cfg.Sandhi.OrbFraction = DefaultSandhiOrbFraction
	}
	if cfg.Sandhi.LookbackDays == 0 {
		cfg.Sandhi.LookbackDays = DefaultSandhiLookbackDays
	}
	if cfg.Sandhi.LookaheadDays == 0 {
		cfg.Sandhi.LookaheadDays = DefaultSandhiLookaheadDays
	}
	if cfg.Sandhi.Level == 0 {
		cfg.Sandhi.Level = DefaultSandhiLevel
	}
	if cfg.Sandhi.PeakRatio == 0 {
		cfg.Sandhi.PeakRatio = DefaultSandhiPeakRatio
	}
	if cfg.Sandhi.StrongRatio == 0 {
		cfg.Sandhi.StrongRatio = DefaultSandhiStrongRatio
	}
	if cfg.Sandhi.MildRatio == 0 {
		cfg.Sandhi.MildRatio = DefaultSandhiMildRatio
	}

	// ── Match ─────────────────────────────────────────────────────────────────
	if cfg.Match.CancellationRules == nil {
		cfg.Match.CancellationRules = append([]string(nil), DefaultCancellationRules...)
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	// DB is an int; 0 is a valid explicit value and also the default.

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}

//Personal.AI order the ending
