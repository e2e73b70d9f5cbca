package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Outlier filtering
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Loading
	NullTokens []string `mapstructure:"null_tokens" yaml:"null_tokens"`
	Delimiter  string   `mapstructure:"delimiter" yaml:"delimiter"`
	Sheet      string   `mapstructure:"sheet" yaml:"sheet"`

	// Train/test split
	TestRatio float64 `mapstructure:"test_ratio" yaml:"test_ratio"`
	Seed      int64   `mapstructure:"seed" yaml:"seed"`

	// Output and charts
	OutputDir     string  `mapstructure:"output_dir" yaml:"output_dir"`
	PlotWidthIn   float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn  float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	HeatmapSizeIn float64 `mapstructure:"heatmap_size_in" yaml:"heatmap_size_in"`
	HistBins      int     `mapstructure:"hist_bins" yaml:"hist_bins"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultNullTokens are the cell values treated as missing on load.
var DefaultNullTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// Default returns the built-in configuration, the same values Load falls back to.
func Default() *Global {
	return &Global{
		OutlierThreshold: 3,
		NullTokens:       append([]string(nil), DefaultNullTokens...),
		TestRatio:        0.2,
		Seed:             42,
		OutputDir:        "edakit-out",
		PlotWidthIn:      6,
		PlotHeightIn:     2.5,
		HeatmapSizeIn:    12,
		HistBins:         20,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edakit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
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
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDAKIT")
	v.AutomaticEnv()

	v.SetDefault("outlier_threshold", 3.0)
	v.SetDefault("null_tokens", DefaultNullTokens)
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet", "")
	v.SetDefault("test_ratio", 0.2)
	v.SetDefault("seed", 42)
	v.SetDefault("output_dir", "edakit-out")
	// figure sizes in inches
	v.SetDefault("plot_width_in", 6.0)
	v.SetDefault("plot_height_in", 2.5)
	v.SetDefault("heatmap_size_in", 12.0)
	v.SetDefault("hist_bins", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the analysis functions cannot work with.
func (c *Global) Validate() error {
	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("invalid outlier_threshold: %v (must be > 0)", c.OutlierThreshold)
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("invalid test_ratio: %v (must be in (0, 1))", c.TestRatio)
	}
	if c.HistBins <= 0 {
		return fmt.Errorf("invalid hist_bins: %d", c.HistBins)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edakit"), nil
}
