package export

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/edakit/internal/regression"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func diagnostics(t *testing.T) *regression.DiagnosticReport {
	t.Helper()
	var x, z, y []float64
	for i := 0; i < 40; i++ {
		f := float64(i)
		x = append(x, f)
		z = append(z, math.Mod(f*5, 9))
		y = append(y, 4+0.5*f-z[i]+math.Cos(f))
	}
	df := dataframe.New(
		series.New(x, series.Float, "x"),
		series.New(z, series.Float, "z"),
		series.New(y, series.Float, "y"),
	)
	s, err := regression.TrainTestSplit(df, "y", []string{"x", "z"}, 0.25, 11)
	require.NoError(t, err)
	rep, err := regression.ValidateAssumptions(df, s, regression.ValidateOptions{Target: "y", PlotWidthIn: 4, PlotHeightIn: 2, HeatmapSizeIn: 4})
	require.NoError(t, err)
	return rep
}

func TestWriteDiagnosticsRun(t *testing.T) {
	rep := diagnostics(t)
	base := t.TempDir()

	run, err := WriteDiagnostics(rep, base, RunOptions{Input: "houses.csv", Target: "y", Features: []string{"x", "z"}, Workbook: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, run.ID), run.RootDir())
	assert.Len(t, run.Artifacts, len(rep.Charts)+2)

	for _, name := range []string{"qq_plot.png", "residual_scatter.png", SummaryFileName, WorkbookFileName, manifestFileName} {
		_, err := os.Stat(filepath.Join(run.RootDir(), name))
		assert.NoError(t, err, name)
	}

	loaded, err := LoadRun(run.RootDir())
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, "houses.csv", loaded.Input)
	assert.Equal(t, []string{"x", "z"}, loaded.Features)
	a, ok := loaded.Artifact(WorkbookFileName)
	require.True(t, ok)
	assert.Equal(t, KindWorkbook, a.Kind)
	assert.Greater(t, a.Bytes, int64(0))

	md, err := os.ReadFile(filepath.Join(run.RootDir(), SummaryFileName))
	require.NoError(t, err)
	assert.Contains(t, string(md), "OLS Regression Results")

	dst := filepath.Join(t.TempDir(), "copies", "diag.xlsx")
	require.NoError(t, loaded.CopyArtifact(WorkbookFileName, dst))
	orig, err := os.ReadFile(filepath.Join(run.RootDir(), WorkbookFileName))
	require.NoError(t, err)
	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, orig, copied)
	assert.Error(t, loaded.CopyArtifact("nope.png", dst))
}

func TestListRuns(t *testing.T) {
	base := t.TempDir()
	runs, err := ListRuns(filepath.Join(base, "absent"))
	require.NoError(t, err)
	assert.Empty(t, runs)

	first := NewRun(base, "a.csv")
	require.NoError(t, first.Save())
	second := NewRun(base, "b.csv")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, second.Save())
	require.NoError(t, os.MkdirAll(filepath.Join(base, "not-a-run"), 0o755))

	runs, err = ListRuns(base)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a.csv", runs[0].Input)
	assert.Equal(t, "b.csv", runs[1].Input)
	assert.Equal(t, second.RootDir(), runs[1].RootDir())
}

func TestWorkbookLayout(t *testing.T) {
	rep := diagnostics(t)
	p := filepath.Join(t.TempDir(), "diag.xlsx")
	wb, err := Workbook(rep)
	require.NoError(t, err)
	require.NoError(t, wb.SaveAs(p))
	require.NoError(t, wb.Close())

	f, err := excelize.OpenFile(p)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetCoefficients, SheetFit, SheetResiduals, SheetCharts}, f.GetSheetList())

	v, err := f.GetCellValue(SheetCoefficients, "A2")
	require.NoError(t, err)
	assert.Equal(t, "const", v)
	v, err = f.GetCellValue(SheetCoefficients, "A4")
	require.NoError(t, err)
	assert.Equal(t, "z", v)

	rows, err := f.GetRows(SheetResiduals)
	require.NoError(t, err)
	assert.Len(t, rows, len(rep.Residuals)+1)

	pics, err := f.GetPictures(SheetCharts, "A1")
	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, ".png", pics[0].Extension)
}

func TestWorkbookRejectsEmptyReport(t *testing.T) {
	_, err := Workbook(&regression.DiagnosticReport{})
	assert.Error(t, err)
}

func TestWriteMarkdownAddsTrailingNewline(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "report.md")
	require.NoError(t, WriteMarkdown(p, "[NULL VALUES]"))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "[NULL VALUES]\n", string(b))
}

func TestLoadRunMissing(t *testing.T) {
	_, err := LoadRun(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
