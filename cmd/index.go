package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edakit/internal/dataprep"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	idxPrimary   string
	idxSecondary string
	idxLookup    string
	idxWrite     string
	idxOutput    string
)

var indexCmd = &cobra.Command{
	Use:   "index <file>",
	Short: "Report two-level key duplicates, then de-duplicate and index on the primary key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if idxPrimary == "" || idxSecondary == "" {
			return fmt.Errorf("--primary and --secondary are required")
		}
		load, err := loadOptions()
		if err != nil {
			return err
		}
		df, err := dataset.Load(args[0], load)
		if err != nil {
			return err
		}
		x, rep, err := dataprep.SelectAndIndex(df, idxPrimary, idxSecondary)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if idxLookup != "" {
			if i, ok := x.Lookup(idxLookup); ok {
				md += fmt.Sprintf("\n[LOOKUP]\n%s=%s is row %d\n", idxPrimary, idxLookup, i)
			} else {
				md += fmt.Sprintf("\n[LOOKUP]\n%s=%s not found\n", idxPrimary, idxLookup)
			}
		}
		if err := emit(cmd, md, idxOutput); err != nil {
			return err
		}
		if idxWrite != "" {
			return writeFrame(cmd, x.Frame, idxWrite)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&idxPrimary, "primary", "", "primary key column")
	indexCmd.Flags().StringVar(&idxSecondary, "secondary", "", "secondary key column")
	indexCmd.Flags().StringVar(&idxLookup, "lookup", "", "print the row position of this primary key value")
	indexCmd.Flags().StringVarP(&idxWrite, "write", "w", "", "write the indexed dataset as CSV")
	indexCmd.Flags().StringVarP(&idxOutput, "output", "o", "", "write the report to this file instead of stdout")
}
