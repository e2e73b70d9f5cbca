package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/export"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descOutput    string
	descOutputDir string
	descNoCorr    bool
	descCorrDrop  string
)

var describeCmd = &cobra.Command{
	Use:   "describe <file|glob>...",
	Short: "Load datasets and print info, descriptive statistics (±3 std) and null percentages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if len(files) > 1 && descOutput != "" {
			return fmt.Errorf("--output takes a single input; use --output-dir for several files")
		}
		load, err := loadOptions()
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Correlations = !descNoCorr
		opt.DropFromCorr = utils.SplitList(descCorrDrop)

		for i, path := range files {
			_, ov, err := analysis.Obtain(path, load, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			md := ov.Markdown()
			switch {
			case descOutputDir != "":
				out := filepath.Join(descOutputDir, utils.Stem(path)+".summary.md")
				if err := export.WriteMarkdown(out, md); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] ✓ %s -> %s\n", i+1, len(files), path, out)
			default:
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := emit(cmd, md, descOutput); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutput, "output", "o", "", "write the report to this file instead of stdout")
	describeCmd.Flags().StringVar(&descOutputDir, "output-dir", "", "write one <name>.summary.md per input into this directory")
	describeCmd.Flags().BoolVar(&descNoCorr, "no-corr", false, "skip the correlation section")
	describeCmd.Flags().StringVar(&descCorrDrop, "corr-drop", "", "comma separated columns to leave out of correlations")
}
