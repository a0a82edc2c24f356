// Package config provides configuration loading and validation for the
// curvefang engine. Values resolve in the usual order: flags override the
// config file, the config file overrides defaults. All numeric search and
// sweep parameters are validated before any computation begins.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/lfunc"
	"github.com/Sumatoshi-tech/curvefang/pkg/sweep"
)

// ErrInvalidConfig is the sentinel for every configuration validation
// failure: missing, non-numeric, or non-positive step/bound/max-prime
// parameters.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default configuration values.
const (
	DefaultBound           = 100.0
	DefaultStep            = 1.0
	DefaultTolerance       = 1e-9
	DefaultMaxPrime        = lfunc.DefaultMaxPrime
	DefaultConsistencyTol  = analysis.DefaultConsistencyTolerance
	DefaultCheckpointEvery = 100
	DefaultWorkers         = 1
)

// Config holds the full engine configuration.
type Config struct {
	Search     SearchConfig     `mapstructure:"search"     yaml:"search"`
	LFunc      LFuncConfig      `mapstructure:"lfunc"      yaml:"lfunc"`
	Sweep      SweepConfig      `mapstructure:"sweep"      yaml:"sweep"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint" yaml:"checkpoint"`
}

// SearchConfig holds rational-point search parameters.
type SearchConfig struct {
	Bound     float64 `mapstructure:"bound"     yaml:"bound"`
	Step      float64 `mapstructure:"step"      yaml:"step"`
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

// LFuncConfig holds Euler-product parameters.
type LFuncConfig struct {
	MaxPrime             int64   `mapstructure:"max_prime"             yaml:"max_prime"`
	ConsistencyTolerance float64 `mapstructure:"consistency_tolerance" yaml:"consistency_tolerance"`
	FastResidue          bool    `mapstructure:"fast_residue"          yaml:"fast_residue"`
}

// SweepConfig holds grid-sweep parameters.
type SweepConfig struct {
	Grid            sweep.Grid    `mapstructure:"grid"             yaml:"grid"`
	CheckpointEvery int           `mapstructure:"checkpoint_every" yaml:"checkpoint_every"`
	Workers         int           `mapstructure:"workers"          yaml:"workers"`
	CurveTimeout    time.Duration `mapstructure:"curve_timeout"    yaml:"curve_timeout"`
}

// CheckpointConfig holds checkpoint persistence parameters.
type CheckpointConfig struct {
	Dir     string `mapstructure:"dir"     yaml:"dir"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Resume  bool   `mapstructure:"resume"  yaml:"resume"`
}

// Default returns the engine defaults.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			Bound:     DefaultBound,
			Step:      DefaultStep,
			Tolerance: DefaultTolerance,
		},
		LFunc: LFuncConfig{
			MaxPrime:             DefaultMaxPrime,
			ConsistencyTolerance: DefaultConsistencyTol,
		},
		Sweep: SweepConfig{
			CheckpointEvery: DefaultCheckpointEvery,
			Workers:         DefaultWorkers,
		},
		Checkpoint: CheckpointConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from the given file (optional) and CURVEFANG_*
// environment variables, over the defaults.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("curvefang")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("CURVEFANG")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viperCfg.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	return &cfg, nil
}

// WriteFile writes the configuration as YAML, suitable as a starting point
// for hand editing. Refuses to overwrite an existing file.
func (c *Config) WriteFile(path string) error {
	_, statErr := os.Stat(path)
	if statErr == nil {
		return fmt.Errorf("%w: %s already exists", ErrInvalidConfig, path)
	}

	data, marshalErr := yaml.Marshal(c)
	if marshalErr != nil {
		return fmt.Errorf("marshal config: %w", marshalErr)
	}

	writeErr := os.WriteFile(path, data, 0o600)
	if writeErr != nil {
		return fmt.Errorf("write config: %w", writeErr)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.bound", DefaultBound)
	v.SetDefault("search.step", DefaultStep)
	v.SetDefault("search.tolerance", DefaultTolerance)
	v.SetDefault("lfunc.max_prime", DefaultMaxPrime)
	v.SetDefault("lfunc.consistency_tolerance", DefaultConsistencyTol)
	v.SetDefault("lfunc.fast_residue", false)
	v.SetDefault("sweep.checkpoint_every", DefaultCheckpointEvery)
	v.SetDefault("sweep.workers", DefaultWorkers)
	v.SetDefault("checkpoint.enabled", true)
}

// Validate fails fast on any non-positive search, truncation, or sweep
// parameter. The grid is validated separately by the sweep driver because a
// single-curve analysis carries no grid.
func (c *Config) Validate() error {
	if c.Search.Step <= 0 {
		return fmt.Errorf("%w: search step must be positive, got %v", ErrInvalidConfig, c.Search.Step)
	}

	if c.Search.Bound <= 0 {
		return fmt.Errorf("%w: search bound must be positive, got %v", ErrInvalidConfig, c.Search.Bound)
	}

	if c.Search.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidConfig, c.Search.Tolerance)
	}

	if c.LFunc.MaxPrime < 2 {
		return fmt.Errorf("%w: max prime must be at least 2, got %d", ErrInvalidConfig, c.LFunc.MaxPrime)
	}

	if c.Sweep.CheckpointEvery <= 0 {
		return fmt.Errorf("%w: checkpoint interval must be positive, got %d", ErrInvalidConfig, c.Sweep.CheckpointEvery)
	}

	if c.Sweep.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Sweep.Workers)
	}

	return nil
}

// AnalysisConfig maps the engine configuration onto per-curve analyzer
// parameters.
func (c *Config) AnalysisConfig() analysis.Config {
	cfg := analysis.Config{
		Bound:                c.Search.Bound,
		Step:                 c.Search.Step,
		Tolerance:            c.Search.Tolerance,
		MaxPrime:             c.LFunc.MaxPrime,
		ConsistencyTolerance: c.LFunc.ConsistencyTolerance,
		CurveTimeout:         c.Sweep.CurveTimeout,
	}

	if c.LFunc.FastResidue {
		cfg.Residue = lfunc.QuadraticResidueFast
	}

	return cfg
}
