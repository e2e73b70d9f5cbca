package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// DescribeStats is the row order of a Description, matching pandas describe plus
// the three-sigma bounds.
var DescribeStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max", "+3_std", "-3_std"}

// ColumnStats are the descriptive statistics of one numeric column.
type ColumnStats struct {
	Name      string
	Count     int
	Mean      float64
	Std       float64 // sample (ddof=1)
	Min       float64
	Q25       float64
	Median    float64
	Q75       float64
	Max       float64
	Plus3Std  float64
	Minus3Std float64
}

// Description holds per-column statistics for every numeric column.
type Description struct {
	Cols []ColumnStats
}

// Describe computes descriptive statistics for the numeric columns of df.
// Missing values are excluded column by column.
func Describe(df dataframe.DataFrame) (*Description, error) {
	if df.Nrow() == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "describe"}
	}
	d := &Description{}
	for _, name := range dataset.NumericColumns(df) {
		d.Cols = append(d.Cols, describeColumn(name, df.Col(name).Float()))
	}
	return d, nil
}

func describeColumn(name string, raw []float64) ColumnStats {
	vals := present(raw)
	cs := ColumnStats{Name: name, Count: len(vals)}
	nan := math.NaN()
	if len(vals) == 0 {
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Median, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		cs.Plus3Std, cs.Minus3Std = nan, nan
		return cs
	}
	if len(vals) == 1 {
		cs.Mean, cs.Std = vals[0], nan
	} else {
		cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
	}
	sorted := sortedCopy(vals)
	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	cs.Q25 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.Q75 = quantile(sorted, 0.75)
	cs.Plus3Std = cs.Mean + 3*cs.Std
	cs.Minus3Std = cs.Mean - 3*cs.Std
	return cs
}

// Column returns the stats for name, if present.
func (d *Description) Column(name string) (ColumnStats, bool) {
	for _, c := range d.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Value returns one statistic by its DescribeStats label.
func (c ColumnStats) Value(label string) float64 {
	switch label {
	case "count":
		return float64(c.Count)
	case "mean":
		return c.Mean
	case "std":
		return c.Std
	case "min":
		return c.Min
	case "25%":
		return c.Q25
	case "50%":
		return c.Median
	case "75%":
		return c.Q75
	case "max":
		return c.Max
	case "+3_std":
		return c.Plus3Std
	case "-3_std":
		return c.Minus3Std
	}
	return math.NaN()
}

// Markdown renders the description with statistics as rows and columns as columns.
func (d *Description) Markdown() string {
	var b strings.Builder
	b.WriteString("[DESCRIBE]\n")
	if len(d.Cols) == 0 {
		b.WriteString("No numeric columns\n")
		return b.String()
	}
	head := []string{""}
	for _, c := range d.Cols {
		head = append(head, safeName(c.Name))
	}
	writeHeader(&b, head...)
	for _, s := range DescribeStats {
		row := []string{s}
		for _, c := range d.Cols {
			if s == "count" {
				row = append(row, fmt.Sprintf("%d", c.Count))
				continue
			}
			row = append(row, num(c.Value(s)))
		}
		writeRow(&b, row...)
	}
	return b.String()
}

// ColumnInfo is one line of Info.
type ColumnInfo struct {
	Name    string
	Dtype   string
	NonNull int
}

// Info summarises shape, dtypes and non-null counts.
type Info struct {
	Rows    int
	Columns []ColumnInfo
}

// Inspect builds the Info of df.
func Inspect(df dataframe.DataFrame) *Info {
	info := &Info{Rows: df.Nrow()}
	for _, name := range df.Names() {
		s := df.Col(name)
		info.Columns = append(info.Columns, ColumnInfo{
			Name:    name,
			Dtype:   dtype(s.Type()),
			NonNull: s.Len() - dataset.CountMissing(s),
		})
	}
	return info
}

func dtype(t series.Type) string {
	switch t {
	case series.Float:
		return "float64"
	case series.Int:
		return "int64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}

// Markdown renders the info table.
func (i *Info) Markdown() string {
	var b strings.Builder
	b.WriteString("[INFO]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", i.Rows, len(i.Columns)))
	writeHeader(&b, "#", "column", "non-null", "dtype")
	for k, c := range i.Columns {
		writeRow(&b, fmt.Sprintf("%d", k), safeName(c.Name), fmt.Sprintf("%d", c.NonNull), c.Dtype)
	}
	return b.String()
}
