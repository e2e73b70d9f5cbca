package cmd

import (
	"strings"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	nullsOutput string
	nullsTop    int
)

var nullsCmd = &cobra.Command{
	Use:   "nulls <file>",
	Short: "Report missing values per column, with unique and top values for columns that have nulls",
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
		rep, err := analysis.Nulls(df)
		if err != nil {
			return err
		}
		vals, err := analysis.FindNulls(df, nullsTop)
		if err != nil {
			return err
		}
		var b strings.Builder
		b.WriteString(rep.Markdown())
		b.WriteString("\n")
		b.WriteString(vals.Markdown())
		return emit(cmd, b.String(), nullsOutput)
	},
}

func init() {
	rootCmd.AddCommand(nullsCmd)
	nullsCmd.Flags().StringVarP(&nullsOutput, "output", "o", "", "write the report to this file instead of stdout")
	nullsCmd.Flags().IntVar(&nullsTop, "top", 10, "value counts to list per column (0 = all)")
}
