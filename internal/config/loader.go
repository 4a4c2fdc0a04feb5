package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "JYOTISH"

var (
	// ErrConfigFileNotFound is returned when the config path does not exist.
	ErrConfigFileNotFound = errors.New("config: file not found")
	// ErrConfigParseError is returned when the file is not valid YAML or does
	// not decode into Config.
	ErrConfigParseError = errors.New("config: parse error")
	// ErrConfigInvalid is returned when the decoded Config fails Validate.
	ErrConfigInvalid = errors.New("config: validation failed")
)

// newViper builds a Viper instance with YAML file type, the JYOTISH_ env
// prefix and a "." → "_" key replacer so that "redis.addr" resolves to
// JYOTISH_REDIS_ADDR.  Every known key is registered so that AutomaticEnv
// also applies when no file is read.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys seeds viper with the defaults from ApplyDefaults.
func registerKeys(v *viper.Viper) {
	d := &Config{}
	ApplyDefaults(d)

	v.SetDefault("engine.default_system", d.Engine.DefaultSystem)
	v.SetDefault("engine.default_cycles", d.Engine.DefaultCycles)
	v.SetDefault("engine.default_depth", d.Engine.DefaultDepth)
	v.SetDefault("engine.max_cycles", d.Engine.MaxCycles)
	v.SetDefault("engine.max_depth", d.Engine.MaxDepth)
	v.SetDefault("engine.enforce_applicability", false)
	v.SetDefault("engine.balance_policy", d.Engine.BalancePolicy)

	v.SetDefault("sandhi.orb_days", d.Sandhi.OrbDays)
	v.SetDefault("sandhi.orb_fraction", d.Sandhi.OrbFraction)
	v.SetDefault("sandhi.lookback_days", d.Sandhi.LookbackDays)
	v.SetDefault("sandhi.lookahead_days", d.Sandhi.LookaheadDays)
	v.SetDefault("sandhi.level", d.Sandhi.Level)
	v.SetDefault("sandhi.peak_ratio", d.Sandhi.PeakRatio)
	v.SetDefault("sandhi.strong_ratio", d.Sandhi.StrongRatio)
	v.SetDefault("sandhi.mild_ratio", d.Sandhi.MildRatio)

	v.SetDefault("match.cancellation_rules", d.Match.CancellationRules)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.min_idle_conns", 0)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", d.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", d.Redis.WriteTimeout)
	v.SetDefault("redis.default_ttl", d.Redis.DefaultTTL)
	v.SetDefault("redis.ttl_jitter", 0.0)
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.subsystem", d.Metrics.Subsystem)
	v.SetDefault("metrics.textfile_path", "")
}

// Load reads the YAML file at configPath, merges JYOTISH_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
		return nil, fmt.Errorf("config: stat %q: %w", configPath, err)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from JYOTISH_* environment variables and
// defaults, with no config file.
//
//	JYOTISH_<SECTION>_<FIELD>   e.g.  JYOTISH_ENGINE_DEFAULT_SYSTEM, JYOTISH_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrDefault loads configPath when it is non-empty and falls back to
// LoadFromEnv otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return cfg, nil
}

//Personal.AI order the ending
