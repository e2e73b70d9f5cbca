package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDelimiter string
	flagSheet     string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "edakit",
	Short: "edakit: exploratory data analysis and OLS diagnostics from the terminal",
	Long: `edakit loads a CSV/TSV/XLSX dataset and runs the usual exploratory steps on it:
null reports, de-duplication, composite indexing, z-score outlier removal,
correlation heatmaps and OLS regression assumption checks.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edakit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter: , tab ; | (default by extension)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "xlsx sheet name (default first sheet)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logging.Init(level, cfg.LogFormat, os.Stderr)
}

// settings returns the loaded configuration, or defaults when none was loaded.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

// loadOptions merges config and global flags into loader options.
func loadOptions() (dataset.Options, error) {
	c := settings()
	d := c.Delimiter
	if flagDelimiter != "" {
		d = flagDelimiter
	}
	r, err := dataset.ParseDelimiter(d)
	if err != nil {
		return dataset.Options{}, err
	}
	sheet := c.Sheet
	if flagSheet != "" {
		sheet = flagSheet
	}
	return dataset.Options{Delimiter: r, NullTokens: c.NullTokens, Sheet: sheet}, nil
}
