package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlation computes Pearson correlations over the numeric columns of df, minus drop.
// Each pair uses the rows where both values are present; pairs with fewer than two
// such rows or zero variance are NaN.
func Correlation(df dataframe.DataFrame, drop []string) (*CorrMatrix, error) {
	if err := dataset.RequireColumns(df, drop...); err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "correlation"}
	}
	skip := map[string]bool{}
	for _, d := range drop {
		skip[d] = true
	}
	var cols []string
	var data [][]float64
	for _, name := range dataset.NumericColumns(df) {
		if skip[name] {
			continue
		}
		cols = append(cols, name)
		data = append(data, df.Col(name).Float())
	}
	n := len(cols)
	m := &CorrMatrix{Columns: cols, Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwise(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pairwise(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// At returns the correlation between columns a and b.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// TopPairs lists off-diagonal pairs by descending |r|, NaN pairs excluded.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.IsNaN(m.Values[i][j]) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai := math.Abs(pairs[i].R)
		aj := math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// Markdown lists the strongest pairs.
func (m *CorrMatrix) Markdown() string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	if len(m.Columns) < 2 {
		b.WriteString("Fewer than two numeric columns\n")
		return b.String()
	}
	for _, p := range m.TopPairs(10) {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}
