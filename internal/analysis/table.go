package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Options controls which sections an overview computes.
type Options struct {
	// Correlations computes a Pearson matrix over numeric columns.
	Correlations bool
	// DropFromCorr excludes columns from the correlation matrix.
	DropFromCorr []string
	// TopValues limits value counts per column in the null-values report; 0 means all.
	TopValues int
}

// DefaultOptions returns reasonable defaults for dataset overviews.
func DefaultOptions() Options {
	return Options{
		Correlations: true,
		TopValues:    10,
	}
}

// percent returns 100*k/n rounded to places decimals.
func percent(k, n int, places int) float64 {
	if n == 0 {
		return 0
	}
	p, err := stats.Round(100*float64(k)/float64(n), places)
	if err != nil {
		return math.NaN()
	}
	return p
}

// present drops NaN values.
func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile interpolates linearly between closest ranks of sorted values, at
// position q·(n-1). gonum LinInterp and montanaflynn Percentile index by q·n.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// num formats a statistic for Markdown tables.
func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}

// writeRow writes one Markdown table row.
func writeRow(b *strings.Builder, cells ...string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func writeHeader(b *strings.Builder, cells ...string) {
	writeRow(b, cells...)
	sep := make([]string, len(cells))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep...)
}
