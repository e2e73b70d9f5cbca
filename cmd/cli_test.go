package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default so bound variables do not
// leak between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

// isolate points HOME at a temp dir and writes a small CSV fixture there.
func isolate(t *testing.T) (home, csvPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() { cfg = nil })

	var b strings.Builder
	b.WriteString("id,grp,x1,x2,y,note\n")
	for i := 0; i < 40; i++ {
		x1 := float64((7 * i) % 11)
		x2 := float64(i) / 4
		y := 1 + 2*x1 + 0.5*x2 + 0.3*math.Sin(float64(i))
		note := "ok"
		if i%10 == 3 {
			note = ""
		}
		fmt.Fprintf(&b, "%d,%d,%g,%g,%.6f,%s\n", i/2, i%3, x1, x2, y, note)
	}
	csvPath = filepath.Join(home, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(b.String()), 0o644))
	return home, csvPath
}

func TestCLI_DescribeAndNulls(t *testing.T) {
	home, data := isolate(t)

	out := mustRun(t, "describe", data)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "[DESCRIBE]")
	assert.Contains(t, out, "[CORRELATIONS]")

	out = mustRun(t, "describe", "--no-corr", data)
	assert.NotContains(t, out, "[CORRELATIONS]")

	dir := filepath.Join(home, "reports")
	out = mustRun(t, "describe", "--output-dir", dir, filepath.Join(home, "*.csv"))
	assert.Contains(t, out, "[1/1] ✓")
	_, err := os.Stat(filepath.Join(dir, "data.summary.md"))
	require.NoError(t, err)

	out = mustRun(t, "nulls", data)
	assert.Contains(t, out, "[NULL VALUES]")
	assert.Contains(t, out, "[COLUMNS WITH NULLS]")
	assert.Contains(t, out, "note")
}

func TestCLI_DedupeIndexOutliers(t *testing.T) {
	home, data := isolate(t)

	deduped := filepath.Join(home, "dedup.csv")
	out := mustRun(t, "dedupe", "--key", "id", "-w", deduped, data)
	assert.Contains(t, out, "[DEDUPLICATION]")
	assert.Contains(t, out, "✓ Wrote 20 rows to")

	out = mustRun(t, "index", "--primary", "id", "--secondary", "grp", "--lookup", "5", data)
	assert.Contains(t, out, "[INDEX]")
	assert.Contains(t, out, "[LOOKUP]")
	assert.Contains(t, out, "id=5 is row 5")

	out = mustRun(t, "outliers", "--cols", "x1,y", data)
	assert.Contains(t, out, "[OUTLIER REMOVAL]")

	_, err := runCmd(t, "outliers", "--threshold=-1", data)
	require.Error(t, err)

	_, err = runCmd(t, "dedupe", data)
	require.Error(t, err)
}

func TestCLI_HeatmapAndValidate(t *testing.T) {
	home, data := isolate(t)

	img := filepath.Join(home, "charts", "heat.png")
	out := mustRun(t, "heatmap", "--drop", "id", "--size", "4", "--out", img, data)
	assert.Contains(t, out, "✓ Wrote heatmap of 4 columns")
	st, err := os.Stat(img)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))

	runs := filepath.Join(home, "runs")
	xlsx := filepath.Join(home, "diag.xlsx")
	out = mustRun(t, "validate", data, "--target", "y", "--features", "x1,x2",
		"--test-ratio", "0.25", "--seed", "7", "--out-dir", runs, "--xlsx", xlsx)
	assert.Contains(t, out, "[OLS SUMMARY]")
	assert.Contains(t, out, "Mean of residuals:")
	assert.Contains(t, out, "✓ Wrote 6 artifacts to")
	assert.Contains(t, out, "✓ Wrote workbook to")
	_, err = os.Stat(xlsx)
	require.NoError(t, err)

	entries, err := os.ReadDir(runs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join(runs, entries[0].Name(), "manifest.json"))
	require.NoError(t, err)

	out = mustRun(t, "runs", "--out-dir", runs)
	assert.Contains(t, out, entries[0].Name())
	assert.Contains(t, out, "target=y artifacts=6")
	out = mustRun(t, "runs", "show", entries[0].Name(), "--out-dir", runs)
	assert.Contains(t, out, "Features: x1, x2")
	assert.Contains(t, out, "diagnostics.xlsx (workbook")
	_, err = runCmd(t, "runs", "show", "no-such-run", "--out-dir", runs)
	require.Error(t, err)

	_, err = runCmd(t, "validate", data, "--target", "missing", "--out-dir", runs)
	require.Error(t, err)
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	isolate(t)

	mustRun(t, "config", "set", "outlier_threshold", "2.5")
	mustRun(t, "config", "set", "hist_bins", "12")
	out := mustRun(t, "config", "show")
	assert.Contains(t, out, "outlier_threshold: 2.5")
	assert.Contains(t, out, "hist_bins: 12")

	_, err := runCmd(t, "config", "set", "test_ratio", "1.5")
	require.Error(t, err)
	_, err = runCmd(t, "config", "set", "delimiter", "xx")
	require.Error(t, err)
	_, err = runCmd(t, "config", "set", "nope", "1")
	require.Error(t, err)
}
