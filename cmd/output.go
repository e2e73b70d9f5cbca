package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/edakit/internal/export"
	"github.com/KaramelBytes/edakit/internal/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
)

// emit prints md to the command's stdout, or writes it to output when set.
func emit(cmd *cobra.Command, md, output string) error {
	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	if err := export.WriteMarkdown(output, md); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", output)
	return nil
}

// writeFrame saves df as CSV at path.
func writeFrame(cmd *cobra.Command, df dataframe.DataFrame, path string) error {
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s\n", df.Nrow(), path)
	return nil
}

// expandInputs resolves glob patterns, keeps literal paths that exist, and
// returns a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
