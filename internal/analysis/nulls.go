package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NullCount is the missing-value tally of one column.
type NullCount struct {
	Column  string
	Missing int
	Percent float64 // 100*Missing/Rows, 3 decimals
}

// NullReport lists missing counts per column, highest percentage first.
type NullReport struct {
	Rows    int
	Columns []NullCount
	// Dataset-level: missing cells over all cells.
	MissingCells   int
	TotalCells     int
	DatasetPercent float64
}

// Nulls computes the missing-value report of df.
func Nulls(df dataframe.DataFrame) (*NullReport, error) {
	n := df.Nrow()
	if n == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "null report"}
	}
	rep := &NullReport{Rows: n}
	for _, name := range df.Names() {
		k := dataset.CountMissing(df.Col(name))
		rep.Columns = append(rep.Columns, NullCount{Column: name, Missing: k, Percent: percent(k, n, 3)})
		rep.MissingCells += k
	}
	sort.SliceStable(rep.Columns, func(i, j int) bool {
		return rep.Columns[i].Percent > rep.Columns[j].Percent
	})
	rep.TotalCells = n * df.Ncol()
	rep.DatasetPercent = percent(rep.MissingCells, rep.TotalCells, 3)
	return rep, nil
}

// Column returns the count for name, if present.
func (r *NullReport) Column(name string) (NullCount, bool) {
	for _, c := range r.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return NullCount{}, false
}

// Markdown renders the null report.
func (r *NullReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[NULL VALUES]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Missing cells: %d of %d (%.3f%%)\n\n", r.MissingCells, r.TotalCells, r.DatasetPercent))
	writeHeader(&b, "column", "null_count", "null_pct")
	for _, c := range r.Columns {
		writeRow(&b, safeName(c.Column), fmt.Sprintf("%d", c.Missing), fmt.Sprintf("%.3f", c.Percent))
	}
	return b.String()
}

// CategoryCount is one value_counts entry.
type CategoryCount struct {
	Value string
	Count int
}

// ColumnNulls describes a column that has at least one missing value.
type ColumnNulls struct {
	Column  string
	Missing int
	// Unique counts distinct values with missing counted once.
	Unique int
	Values []CategoryCount
}

// NullValuesReport covers only the columns with missing values.
type NullValuesReport struct {
	Columns []ColumnNulls
}

// FindNulls reports null counts, unique counts and value counts for every column
// with missing values. topN limits value counts per column; 0 keeps all.
func FindNulls(df dataframe.DataFrame, topN int) (*NullValuesReport, error) {
	if df.Nrow() == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "find nulls"}
	}
	rep := &NullValuesReport{}
	for _, name := range df.Names() {
		s := df.Col(name)
		mask := dataset.MissingMask(s)
		counts := map[string]int{}
		missing := 0
		for i, m := range mask {
			if m {
				missing++
				continue
			}
			counts[cellString(s, i)]++
		}
		if missing == 0 {
			continue
		}
		cn := ColumnNulls{Column: name, Missing: missing, Unique: len(counts) + 1}
		for v, c := range counts {
			cn.Values = append(cn.Values, CategoryCount{Value: v, Count: c})
		}
		sort.Slice(cn.Values, func(i, j int) bool {
			if cn.Values[i].Count != cn.Values[j].Count {
				return cn.Values[i].Count > cn.Values[j].Count
			}
			return cn.Values[i].Value < cn.Values[j].Value
		})
		if topN > 0 && len(cn.Values) > topN {
			cn.Values = cn.Values[:topN]
		}
		rep.Columns = append(rep.Columns, cn)
	}
	return rep, nil
}

// Markdown renders one block per column with missing values.
func (r *NullValuesReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[COLUMNS WITH NULLS]\n")
	if len(r.Columns) == 0 {
		b.WriteString("None\n")
		return b.String()
	}
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %d null, %d unique", safeName(c.Column), c.Missing, c.Unique))
		if len(c.Values) > 0 {
			b.WriteString("; top: ")
			for i, kv := range c.Values {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cellString(s series.Series, i int) string {
	if s.Type() == series.Float {
		return strconv.FormatFloat(s.Elem(i).Float(), 'g', -1, 64)
	}
	return s.Elem(i).String()
}
