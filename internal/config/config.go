// Package config loads settings for the dequedict command.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"dequedict/pkg/dequedict"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "DEQUEDICT"

// Config is the complete command configuration.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Bench    BenchConfig   `mapstructure:"bench"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	Size       int      `mapstructure:"size"`
	Iterations int      `mapstructure:"iterations"`
	Impls      []string `mapstructure:"impls"`
	Baselines  bool     `mapstructure:"baselines"`
	Output     string   `mapstructure:"output"`
}

// CacheConfig sizes the cache used by the demo command.
type CacheConfig struct {
	MaxEntries      int           `mapstructure:"max_entries"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from defaults, an optional file and DEQUEDICT_*
// environment variables, in increasing order of precedence. Values bound to
// command-line flags on v take precedence over all of them.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("bench.size", 1000)
	v.SetDefault("bench.iterations", 100_000)
	v.SetDefault("bench.impls", []string{string(dequedict.Linked), string(dequedict.ArenaImpl)})
	v.SetDefault("bench.baselines", true)
	v.SetDefault("bench.output", "text")

	v.SetDefault("cache.max_entries", 2)
	v.SetDefault("cache.cleanup_interval", "100ms")

	v.SetDefault("metrics.addr", "")
}

// Validate checks that the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	var errs []string

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Bench.Size <= 0 {
		errs = append(errs, "bench size must be positive")
	}
	if c.Bench.Iterations <= 0 {
		errs = append(errs, "bench iterations must be positive")
	}
	if len(c.Bench.Impls) == 0 {
		errs = append(errs, "at least one bench implementation is required")
	}
	for _, impl := range c.Bench.Impls {
		switch dequedict.Impl(impl) {
		case dequedict.Linked, dequedict.ArenaImpl:
		default:
			errs = append(errs, fmt.Sprintf("unknown implementation %q (must be linked or arena)", impl))
		}
	}
	switch c.Bench.Output {
	case "text", "json", "yaml":
	default:
		errs = append(errs, fmt.Sprintf("invalid output format %q (must be text, json, or yaml)", c.Bench.Output))
	}

	if c.Cache.MaxEntries < 0 {
		errs = append(errs, "cache max entries cannot be negative")
	}
	if c.Cache.CleanupInterval < 0 {
		errs = append(errs, "cache cleanup interval cannot be negative")
	}

	if c.Metrics.Addr != "" && !strings.Contains(c.Metrics.Addr, ":") {
		errs = append(errs, fmt.Sprintf("invalid metrics address format %q (expected :port or host:port)", c.Metrics.Addr))
	}

	if len(errs) > 0 {
		return errors.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel)
}

// BenchImpls returns the configured implementations.
func (c *Config) BenchImpls() []dequedict.Impl {
	out := make([]dequedict.Impl, 0, len(c.Bench.Impls))
	for _, s := range c.Bench.Impls {
		out = append(out, dequedict.Impl(s))
	}
	return out
}
