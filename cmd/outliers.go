package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/dataprep"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	outCols      string
	outThreshold float64
	outWrite     string
	outOutput    string
)

var outliersCmd = &cobra.Command{
	Use:   "outliers <file>",
	Short: "Drop rows whose z-score exceeds the threshold, column by column in the given order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		load, err := loadOptions()
		if err != nil {
			return err
		}
		df, err := dataset.Load(args[0], load)
		if err != nil {
			return err
		}
		cols := utils.SplitList(outCols)
		if len(cols) == 0 {
			cols = dataset.NumericColumns(df)
		}
		if len(cols) == 0 {
			return fmt.Errorf("no numeric columns to filter")
		}
		thr := settings().OutlierThreshold
		if cmd.Flags().Changed("threshold") {
			if outThreshold <= 0 {
				return fmt.Errorf("--threshold must be > 0")
			}
			thr = outThreshold
		}
		out, rep, err := dataprep.RemoveOutliers(df, cols, thr)
		if err != nil {
			return err
		}
		if err := emit(cmd, rep.Markdown(), outOutput); err != nil {
			return err
		}
		if outWrite != "" {
			return writeFrame(cmd, out, outWrite)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outliersCmd)
	outliersCmd.Flags().StringVar(&outCols, "cols", "", "comma separated columns, filtered in this order (default all numeric)")
	outliersCmd.Flags().Float64Var(&outThreshold, "threshold", 0, "z-score threshold (default from config, 3)")
	outliersCmd.Flags().StringVarP(&outWrite, "write", "w", "", "write the filtered dataset as CSV")
	outliersCmd.Flags().StringVarP(&outOutput, "output", "o", "", "write the report to this file instead of stdout")
}
