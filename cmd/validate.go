package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/export"
	"github.com/KaramelBytes/edakit/internal/regression"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	valTarget    string
	valFeatures  string
	valTestRatio float64
	valSeed      int64
	valOutDir    string
	valXLSX      string
	valOutput    string
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Fit OLS on a train split and chart the test residuals to check regression assumptions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if valTarget == "" {
			return fmt.Errorf("--target is required")
		}
		c := settings()
		ratio := c.TestRatio
		if cmd.Flags().Changed("test-ratio") {
			ratio = valTestRatio
		}
		seed := c.Seed
		if cmd.Flags().Changed("seed") {
			seed = valSeed
		}
		outDir := c.OutputDir
		if valOutDir != "" {
			outDir = valOutDir
		}

		load, err := loadOptions()
		if err != nil {
			return err
		}
		df, err := dataset.Load(args[0], load)
		if err != nil {
			return err
		}
		split, err := regression.TrainTestSplit(df, valTarget, utils.SplitList(valFeatures), ratio, seed)
		if err != nil {
			return err
		}
		features := split.TrainX.Names()
		rep, err := regression.ValidateAssumptions(df.Select(features), split, regression.ValidateOptions{
			Target:        valTarget,
			HistBins:      c.HistBins,
			PlotWidthIn:   c.PlotWidthIn,
			PlotHeightIn:  c.PlotHeightIn,
			HeatmapSizeIn: c.HeatmapSizeIn,
		})
		if err != nil {
			return err
		}
		if err := emit(cmd, rep.Markdown(), valOutput); err != nil {
			return err
		}

		run, err := export.WriteDiagnostics(rep, outDir, export.RunOptions{
			Input:    args[0],
			Target:   valTarget,
			Features: features,
			Workbook: valXLSX != "",
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d artifacts to %s\n", len(run.Artifacts), run.RootDir())
		if valXLSX != "" {
			if err := run.CopyArtifact(export.WorkbookFileName, valXLSX); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", valXLSX)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&valTarget, "target", "t", "", "target column")
	validateCmd.Flags().StringVarP(&valFeatures, "features", "f", "", "comma separated feature columns (default all other numeric)")
	validateCmd.Flags().Float64Var(&valTestRatio, "test-ratio", 0.2, "share of rows held out for residuals")
	validateCmd.Flags().Int64Var(&valSeed, "seed", 42, "shuffle seed for the split")
	validateCmd.Flags().StringVar(&valOutDir, "out-dir", "", "base directory for run artifacts (default from config)")
	validateCmd.Flags().StringVar(&valXLSX, "xlsx", "", "also write an xlsx workbook to this path")
	validateCmd.Flags().StringVarP(&valOutput, "output", "o", "", "write the report to this file instead of stdout")
}
