package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/edakit/internal/export"
	"github.com/spf13/cobra"
)

var runsDir string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved validate runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := runsBaseDir()
		runs, err := export.ListRuns(dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintf(w, "(no runs in %s)\n", dir)
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(w, "- %s  %s  %s target=%s artifacts=%d\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Input, r.Target, len(r.Artifacts))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the manifest of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := export.LoadRun(filepath.Join(runsBaseDir(), args[0]))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Run: %s\n", r.ID)
		fmt.Fprintf(w, "Input: %s\n", r.Input)
		if r.Target != "" {
			fmt.Fprintf(w, "Target: %s\n", r.Target)
		}
		if len(r.Features) > 0 {
			fmt.Fprintf(w, "Features: %s\n", strings.Join(r.Features, ", "))
		}
		fmt.Fprintf(w, "Created: %s\n", r.CreatedAt.Format(time.RFC3339))
		for _, a := range r.Artifacts {
			fmt.Fprintf(w, "- %s (%s, %d bytes)\n", filepath.Join(r.RootDir(), a.Path), a.Kind, a.Bytes)
		}
		return nil
	},
}

func runsBaseDir() string {
	if runsDir != "" {
		return runsDir
	}
	return settings().OutputDir
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.PersistentFlags().StringVar(&runsDir, "out-dir", "", "base directory of runs (default from config)")
}
