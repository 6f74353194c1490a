package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dequedict/pkg/dequedict"
)

func validConfig() Config {
	return Config{
		LogLevel: "info",
		Bench: BenchConfig{
			Size:       10,
			Iterations: 10,
			Impls:      []string{"linked"},
			Output:     "text",
		},
		Cache: CacheConfig{MaxEntries: 2, CleanupInterval: time.Second},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.Bench.Size)
	assert.Equal(t, 100_000, cfg.Bench.Iterations)
	assert.Equal(t, []dequedict.Impl{dequedict.Linked, dequedict.ArenaImpl}, cfg.BenchImpls())
	assert.True(t, cfg.Bench.Baselines)
	assert.Equal(t, "text", cfg.Bench.Output)
	assert.Equal(t, 2, cfg.Cache.MaxEntries)
	assert.Equal(t, 100*time.Millisecond, cfg.Cache.CleanupInterval)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DEQUEDICT_BENCH_SIZE", "50")
	t.Setenv("DEQUEDICT_BENCH_OUTPUT", "yaml")
	t.Setenv("DEQUEDICT_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Bench.Size)
	assert.Equal(t, "yaml", cfg.Bench.Output)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dequedict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bench:
  iterations: 42
  impls: [arena]
cache:
  max_entries: 8
  cleanup_interval: 2s
metrics:
  addr: ":9090"
`), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Bench.Iterations)
	assert.Equal(t, []dequedict.Impl{dequedict.ArenaImpl}, cfg.BenchImpls())
	assert.Equal(t, 8, cfg.Cache.MaxEntries)
	assert.Equal(t, 2*time.Second, cfg.Cache.CleanupInterval)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	for _, tt := range []struct {
		desc    string
		mutate  func(c *Config)
		wantErr string
	}{{
		desc:   "valid",
		mutate: func(c *Config) {},
	}, {
		desc:    "bad log level",
		mutate:  func(c *Config) { c.LogLevel = "loud" },
		wantErr: `invalid log level "loud"`,
	}, {
		desc:    "zero size",
		mutate:  func(c *Config) { c.Bench.Size = 0 },
		wantErr: "bench size must be positive",
	}, {
		desc:    "zero iterations",
		mutate:  func(c *Config) { c.Bench.Iterations = 0 },
		wantErr: "bench iterations must be positive",
	}, {
		desc:    "no impls",
		mutate:  func(c *Config) { c.Bench.Impls = nil },
		wantErr: "at least one bench implementation is required",
	}, {
		desc:    "unknown impl",
		mutate:  func(c *Config) { c.Bench.Impls = []string{"native"} },
		wantErr: `unknown implementation "native"`,
	}, {
		desc:    "bad output",
		mutate:  func(c *Config) { c.Bench.Output = "xml" },
		wantErr: `invalid output format "xml"`,
	}, {
		desc:    "negative max entries",
		mutate:  func(c *Config) { c.Cache.MaxEntries = -1 },
		wantErr: "cache max entries cannot be negative",
	}, {
		desc:    "negative cleanup interval",
		mutate:  func(c *Config) { c.Cache.CleanupInterval = -time.Second },
		wantErr: "cache cleanup interval cannot be negative",
	}, {
		desc:    "metrics address without port",
		mutate:  func(c *Config) { c.Metrics.Addr = "localhost" },
		wantErr: "invalid metrics address format",
	}} {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
