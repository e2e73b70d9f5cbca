package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edakit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "outlier_threshold: %g\n", c.OutlierThreshold)
		fmt.Fprintf(w, "null_tokens: %s\n", strings.Join(quoteAll(c.NullTokens), ","))
		if c.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %q\n", c.Delimiter)
		}
		if c.Sheet != "" {
			fmt.Fprintf(w, "sheet: %s\n", c.Sheet)
		}
		fmt.Fprintf(w, "test_ratio: %g\n", c.TestRatio)
		fmt.Fprintf(w, "seed: %d\n", c.Seed)
		fmt.Fprintf(w, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(w, "plot_width_in: %g\n", c.PlotWidthIn)
		fmt.Fprintf(w, "plot_height_in: %g\n", c.PlotHeightIn)
		fmt.Fprintf(w, "heatmap_size_in: %g\n", c.HeatmapSizeIn)
		fmt.Fprintf(w, "hist_bins: %d\n", c.HistBins)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for outlier_threshold: %w", err)
			}
			next.OutlierThreshold = f
		case "null_tokens":
			next.NullTokens = strings.Split(val, ",")
		case "delimiter":
			if _, err := dataset.ParseDelimiter(val); err != nil {
				return err
			}
			next.Delimiter = val
		case "sheet":
			next.Sheet = val
		case "test_ratio":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for test_ratio: %w", err)
			}
			next.TestRatio = f
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			next.Seed = i
		case "output_dir":
			next.OutputDir = val
		case "plot_width_in", "plot_height_in", "heatmap_size_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid size for %s: %v", key, val)
			}
			switch key {
			case "plot_width_in":
				next.PlotWidthIn = f
			case "plot_height_in":
				next.PlotHeightIn = f
			default:
				next.HeatmapSizeIn = f
			}
		case "hist_bins":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for hist_bins: %w", err)
			}
			next.HistBins = i
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "warning", "error":
				next.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				next.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text|json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		cfg = &next
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strconv.Quote(s)
	}
	return out
}
