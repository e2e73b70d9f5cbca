package dataprep

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
)

// DefaultZThreshold is the |z| above which a row counts as an outlier.
const DefaultZThreshold = 3.0

// ZScoreSuffix names the transient per-column z-score column.
const ZScoreSuffix = "_zscore"

// ColumnOutliers is the removal tally for one column.
type ColumnOutliers struct {
	Column string
	// Mean and Std are of the rows still present when the column was processed.
	Mean      float64
	Std       float64
	Removed   int
	Percent   float64 // of the original row count, 3 decimals
	Remaining int
}

// OutlierReport describes a RemoveOutliers run.
type OutlierReport struct {
	Threshold    float64
	OriginalRows int
	Columns      []ColumnOutliers
	TotalRemoved int
	TotalPercent float64 // sum of per-column percents, 2 decimals
	FinalRows    int
}

// RemoveOutliers filters df column by column, in the given order, dropping rows whose
// z-score (population std) exceeds threshold in absolute value. Each column's z-scores
// are computed on the rows that survived the previous columns, so the result depends
// on column order. threshold <= 0 means DefaultZThreshold. df is not modified.
//
// Surviving rows are within threshold of the population they were scored against;
// rescoring the output can still flag rows, since removal moves the mean and std.
func RemoveOutliers(df dataframe.DataFrame, columns []string, threshold float64) (dataframe.DataFrame, *OutlierReport, error) {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}
	if err := dataset.RequireColumns(df, columns...); err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, nil, &dataset.EmptyDatasetError{Op: "remove outliers"}
	}
	for _, c := range columns {
		if _, err := dataset.CompleteFloats(df, c); err != nil {
			return dataframe.DataFrame{}, nil, err
		}
		if dataset.HasColumn(df, c+ZScoreSuffix) {
			return dataframe.DataFrame{}, nil, fmt.Errorf("remove outliers: column %q already exists", c+ZScoreSuffix)
		}
	}

	rep := &OutlierReport{Threshold: threshold, OriginalRows: df.Nrow()}
	out := df
	for _, c := range columns {
		vals := out.Col(c).Float()
		mean, std, err := popMeanStd(vals)
		if err != nil {
			return dataframe.DataFrame{}, nil, fmt.Errorf("z-score %q: %w", c, err)
		}
		if degenerate(mean, std) {
			return dataframe.DataFrame{}, nil, &dataset.DegenerateColumnError{Column: c}
		}
		zcol := c + ZScoreSuffix
		z := zscores(vals, mean, std)
		out = out.Mutate(series.New(z, series.Float, zcol))
		if out.Err != nil {
			return dataframe.DataFrame{}, nil, fmt.Errorf("add %s: %w", zcol, out.Err)
		}

		keep := make([]int, 0, len(z))
		for i, zv := range out.Col(zcol).Float() {
			if math.Abs(zv) <= threshold {
				keep = append(keep, i)
			}
		}
		removed := len(z) - len(keep)
		out = out.Subset(keep).Drop(zcol)
		if out.Err != nil {
			return dataframe.DataFrame{}, nil, fmt.Errorf("filter %s: %w", c, out.Err)
		}

		pct := roundTo(100*float64(removed)/float64(rep.OriginalRows), 3)
		rep.Columns = append(rep.Columns, ColumnOutliers{
			Column:    c,
			Mean:      mean,
			Std:       std,
			Removed:   removed,
			Percent:   pct,
			Remaining: out.Nrow(),
		})
		rep.TotalRemoved += removed
		rep.TotalPercent += pct
		slog.Debug("outliers removed", "column", c, "removed", removed, "remaining", out.Nrow())
	}
	rep.TotalPercent = roundTo(rep.TotalPercent, 2)
	rep.FinalRows = out.Nrow()
	return out, rep, nil
}

// zscores standardizes vals against the given mean and std.
func zscores(vals []float64, mean, std float64) []float64 {
	z := make([]float64, len(vals))
	for i, v := range vals {
		z[i] = (v - mean) / std
	}
	return z
}

func popMeanStd(vals []float64) (mean, std float64, err error) {
	data := stats.Float64Data(vals)
	if mean, err = stats.Mean(data); err != nil {
		return 0, 0, err
	}
	if std, err = stats.StandardDeviationPopulation(data); err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}

// degenerate treats a std lost in rounding noise of the mean as zero.
func degenerate(mean, std float64) bool {
	return std == 0 || std <= 1e-12*math.Max(1, math.Abs(mean))
}

func roundTo(x float64, places int) float64 {
	r, err := stats.Round(x, places)
	if err != nil {
		return x
	}
	return r
}

// Markdown renders the removal report.
func (r *OutlierReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[OUTLIER REMOVAL]\n")
	b.WriteString(fmt.Sprintf("Threshold: |z| > %g\n", r.Threshold))
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", r.OriginalRows))
	b.WriteString("| column | removed | pct_of_total | remaining |\n| --- | --- | --- | --- |\n")
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("| %s | %d | %.3f | %d |\n", c.Column, c.Removed, c.Percent, c.Remaining))
	}
	b.WriteString(fmt.Sprintf("\nTotal rows removed: %d\n", r.TotalRemoved))
	b.WriteString(fmt.Sprintf("Total percentage removed: %.2f%%\n", r.TotalPercent))
	b.WriteString(fmt.Sprintf("New length: %d\n", r.FinalRows))
	return b.String()
}
