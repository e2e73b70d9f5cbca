package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/plots"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	heatDrop string
	heatOut  string
	heatSize float64
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <file>",
	Short: "Render an annotated correlation heatmap of the numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if heatOut == "" {
			return fmt.Errorf("--out is required (e.g. heat.png or heat.svg)")
		}
		load, err := loadOptions()
		if err != nil {
			return err
		}
		df, err := dataset.Load(args[0], load)
		if err != nil {
			return err
		}
		corr, err := analysis.Correlation(df, utils.SplitList(heatDrop))
		if err != nil {
			return err
		}
		chart, err := plots.CorrelationHeatmap(corr.Columns, corr.Values)
		if err != nil {
			return err
		}
		size := settings().HeatmapSizeIn
		if heatSize > 0 {
			size = heatSize
		}
		chart.Resize(size, size)
		if err := chart.Save(heatOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote heatmap of %d columns to %s\n", len(corr.Columns), heatOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
	heatmapCmd.Flags().StringVar(&heatDrop, "drop", "", "comma separated columns to leave out")
	heatmapCmd.Flags().StringVar(&heatOut, "out", "", "output image path; format from extension")
	heatmapCmd.Flags().Float64Var(&heatSize, "size", 0, "side length in inches (default from config)")
}
