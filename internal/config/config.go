// Package config defines all configuration structures for the jyotish engine
// host.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// EngineConfig holds the period-engine request defaults and hard limits.
type EngineConfig struct {
	DefaultSystem string `mapstructure:"default_system"` // "vimshottari" | "ashtottari" | "yogini"
	DefaultCycles int    `mapstructure:"default_cycles"`
	DefaultDepth  int    `mapstructure:"default_depth"`
	MaxCycles     int    `mapstructure:"max_cycles"`
	MaxDepth      int    `mapstructure:"max_depth"`
	// EnforceApplicability rejects conditional systems whose chart condition
	// fails instead of only reporting it.
	EnforceApplicability bool `mapstructure:"enforce_applicability"`
	// BalancePolicy is "clip" or "scale".
	BalancePolicy string `mapstructure:"balance_policy"`
}

// SandhiConfig holds the junction-window policy.  The ratios are fractions of
// the window half-width and must be strictly increasing.
type SandhiConfig struct {
	OrbDays       float64 `mapstructure:"orb_days"`
	OrbFraction   float64 `mapstructure:"orb_fraction"`
	LookbackDays  int     `mapstructure:"lookback_days"`
	LookaheadDays int     `mapstructure:"lookahead_days"`
	Level         int     `mapstructure:"level"`
	PeakRatio     float64 `mapstructure:"peak_ratio"`
	StrongRatio   float64 `mapstructure:"strong_ratio"`
	MildRatio     float64 `mapstructure:"mild_ratio"`
}

// MatchConfig holds compatibility scoring parameters.
type MatchConfig struct {
	// CancellationRules lists the enabled Manglik cancellation rule ids in
	// the order they are evaluated.
	CancellationRules []string `mapstructure:"cancellation_rules"`
}

// RedisConfig holds the optional timeline-cache connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	TTLJitter    float64       `mapstructure:"ttl_jitter"` // fraction of the TTL, [0,1)
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus metric parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	// TextfilePath, when set, receives the registry in text exposition format
	// after every CLI command (node_exporter textfile collector).
	TextfilePath string `mapstructure:"textfile_path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Sandhi  SandhiConfig  `mapstructure:"sandhi"`
	Match   MatchConfig   `mapstructure:"match"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var knownSystems = map[string]bool{
	"vimshottari": true,
	"ashtottari":  true,
	"yogini":      true,
}

// KnownCancellationRules are the Manglik cancellation rule ids accepted in
// match.cancellation_rules.
var KnownCancellationRules = map[string]bool{
	"house_sign_exception": true,
	"mars_dignity":         true,
	"jupiter_aspect":       true,
	"moon_conjunction":     true,
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Engine
	if !knownSystems[c.Engine.DefaultSystem] {
		return fmt.Errorf("config: engine.default_system %q is invalid; expected vimshottari|ashtottari|yogini", c.Engine.DefaultSystem)
	}
	if c.Engine.MaxDepth < 1 || c.Engine.MaxDepth > 5 {
		return fmt.Errorf("config: engine.max_depth %d is out of range [1, 5]", c.Engine.MaxDepth)
	}
	if c.Engine.DefaultDepth < 1 || c.Engine.DefaultDepth > c.Engine.MaxDepth {
		return fmt.Errorf("config: engine.default_depth %d is out of range [1, %d]", c.Engine.DefaultDepth, c.Engine.MaxDepth)
	}
	if c.Engine.BalancePolicy != "clip" && c.Engine.BalancePolicy != "scale" {
		return fmt.Errorf("config: engine.balance_policy %q is invalid; expected clip|scale", c.Engine.BalancePolicy)
	}
	if c.Engine.MaxCycles < 1 {
		return fmt.Errorf("config: engine.max_cycles must be ≥ 1, got %d", c.Engine.MaxCycles)
	}
	if c.Engine.DefaultCycles < 1 || c.Engine.DefaultCycles > c.Engine.MaxCycles {
		return fmt.Errorf("config: engine.default_cycles %d is out of range [1, %d]", c.Engine.DefaultCycles, c.Engine.MaxCycles)
	}

	// Sandhi
	if c.Sandhi.OrbDays <= 0 {
		return fmt.Errorf("config: sandhi.orb_days must be > 0, got %g", c.Sandhi.OrbDays)
	}
	if c.Sandhi.OrbFraction <= 0 || c.Sandhi.OrbFraction > 0.5 {
		return fmt.Errorf("config: sandhi.orb_fraction %g is out of range (0, 0.5]", c.Sandhi.OrbFraction)
	}
	if c.Sandhi.LookbackDays < 0 || c.Sandhi.LookaheadDays < 0 {
		return fmt.Errorf("config: sandhi lookback/lookahead must be ≥ 0")
	}
	if c.Sandhi.Level < 1 || c.Sandhi.Level > c.Engine.MaxDepth {
		return fmt.Errorf("config: sandhi.level %d is out of range [1, %d]", c.Sandhi.Level, c.Engine.MaxDepth)
	}
	if !(0 < c.Sandhi.PeakRatio && c.Sandhi.PeakRatio < c.Sandhi.StrongRatio && c.Sandhi.StrongRatio < c.Sandhi.MildRatio) {
		return fmt.Errorf("config: sandhi ratios must satisfy 0 < peak < strong < mild, got %g/%g/%g",
			c.Sandhi.PeakRatio, c.Sandhi.StrongRatio, c.Sandhi.MildRatio)
	}

	// Match
	for _, id := range c.Match.CancellationRules {
		if !KnownCancellationRules[id] {
			return fmt.Errorf("config: match.cancellation_rules contains unknown rule %q", id)
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
		if c.Redis.TTLJitter < 0 || c.Redis.TTLJitter >= 1 {
			return fmt.Errorf("config: redis.ttl_jitter must be in [0,1), got %v", c.Redis.TTLJitter)
		}
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
