package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/dataprep"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	dedupeKey    string
	dedupeWrite  string
	dedupeOutput string
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <file>",
	Short: "Sort by a key column and keep the first row per key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dedupeKey == "" {
			return fmt.Errorf("--key is required")
		}
		load, err := loadOptions()
		if err != nil {
			return err
		}
		df, err := dataset.Load(args[0], load)
		if err != nil {
			return err
		}
		out, rep, err := dataprep.Deduplicate(df, dedupeKey)
		if err != nil {
			return err
		}
		if err := emit(cmd, rep.Markdown(), dedupeOutput); err != nil {
			return err
		}
		if dedupeWrite != "" {
			return writeFrame(cmd, out, dedupeWrite)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
	dedupeCmd.Flags().StringVarP(&dedupeKey, "key", "k", "", "key column")
	dedupeCmd.Flags().StringVarP(&dedupeWrite, "write", "w", "", "write the de-duplicated dataset as CSV")
	dedupeCmd.Flags().StringVarP(&dedupeOutput, "output", "o", "", "write the report to this file instead of stdout")
}
