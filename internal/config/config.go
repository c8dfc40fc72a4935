package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Engine heuristics
	ComparisonLimit      int      `mapstructure:"comparison_limit" yaml:"comparison_limit"`
	MaxCharts            int      `mapstructure:"max_charts" yaml:"max_charts"`
	NumericMajority      float64  `mapstructure:"numeric_majority" yaml:"numeric_majority"`
	MaxCategories        int      `mapstructure:"max_categories" yaml:"max_categories"`
	CountMaxCeiling      float64  `mapstructure:"count_max_ceiling" yaml:"count_max_ceiling"`
	CountMaxSpread       float64  `mapstructure:"count_max_spread" yaml:"count_max_spread"`
	AvgSpreadRatio       float64  `mapstructure:"avg_spread_ratio" yaml:"avg_spread_ratio"`
	IdentifierSubstrings []string `mapstructure:"identifier_substrings" yaml:"identifier_substrings"`
	MaxCandidateColumns  int      `mapstructure:"max_candidate_columns" yaml:"max_candidate_columns"`

	// Output
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Default returns the built-in configuration.
func Default() *Global {
	th := analysis.DefaultThresholds()
	return &Global{
		ComparisonLimit:      th.ComparisonLimit,
		MaxCharts:            th.MaxCharts,
		NumericMajority:      th.NumericMajority,
		MaxCategories:        th.MaxCategories,
		CountMaxCeiling:      th.CountMaxCeiling,
		CountMaxSpread:       th.CountMaxSpread,
		AvgSpreadRatio:       th.AvgSpreadRatio,
		IdentifierSubstrings: th.IdentifierSubstrings,
		DefaultFormat:        "markdown",
		HTTPTimeoutSec:       30,
		RetryMaxAttempts:     3,
		RetryBaseDelayMs:     500,
		RetryMaxDelayMs:      4000,
	}
}

// Thresholds maps the engine keys onto analysis.Thresholds.
func (c *Global) Thresholds() analysis.Thresholds {
	th := analysis.DefaultThresholds()
	if c == nil {
		return th
	}
	th.ComparisonLimit = c.ComparisonLimit
	th.MaxCharts = c.MaxCharts
	th.NumericMajority = c.NumericMajority
	th.MaxCategories = c.MaxCategories
	th.CountMaxCeiling = c.CountMaxCeiling
	th.CountMaxSpread = c.CountMaxSpread
	th.AvgSpreadRatio = c.AvgSpreadRatio
	th.MaxCandidateColumns = c.MaxCandidateColumns
	if len(c.IdentifierSubstrings) > 0 {
		th.IdentifierSubstrings = c.IdentifierSubstrings
	}
	return th
}

// HTTPTimeout returns the configured HTTP timeout.
func (c *Global) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// RetryDelays returns the base and max backoff.
func (c *Global) RetryDelays() (time.Duration, time.Duration) {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond, time.Duration(c.RetryMaxDelayMs) * time.Millisecond
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datalens", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALENS")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("comparison_limit", d.ComparisonLimit)
	v.SetDefault("max_charts", d.MaxCharts)
	v.SetDefault("numeric_majority", d.NumericMajority)
	v.SetDefault("max_categories", d.MaxCategories)
	v.SetDefault("count_max_ceiling", d.CountMaxCeiling)
	v.SetDefault("count_max_spread", d.CountMaxSpread)
	v.SetDefault("avg_spread_ratio", d.AvgSpreadRatio)
	v.SetDefault("identifier_substrings", d.IdentifierSubstrings)
	v.SetDefault("max_candidate_columns", 0)
	v.SetDefault("default_format", d.DefaultFormat)
	v.SetDefault("http_timeout_sec", d.HTTPTimeoutSec)
	v.SetDefault("retry_max_attempts", d.RetryMaxAttempts)
	v.SetDefault("retry_base_delay_ms", d.RetryBaseDelayMs)
	v.SetDefault("retry_max_delay_ms", d.RetryMaxDelayMs)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".datalens"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
