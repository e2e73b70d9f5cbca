package dataprep

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// missingKey stands in for every missing key value; missing keys compare equal.
const missingKey = "\x00<missing>"

// DedupeReport describes a Deduplicate run.
type DedupeReport struct {
	Key     string
	Before  int
	After   int
	Removed int
}

// Deduplicate stable-sorts df by key ascending (missing keys last) and keeps the first
// row of every key value. df is not modified.
func Deduplicate(df dataframe.DataFrame, key string) (dataframe.DataFrame, *DedupeReport, error) {
	if err := dataset.RequireColumns(df, key); err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	s := df.Col(key)
	keys := cellKeys(s)
	order := sortOrder(s)
	seen := make(map[string]bool, len(order))
	keep := make([]int, 0, len(order))
	for _, i := range order {
		k := keys[i]
		if seen[k] {
			continue
		}
		seen[k] = true
		keep = append(keep, i)
	}
	out := df.Subset(keep)
	if out.Err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("deduplicate %s: %w", key, out.Err)
	}
	rep := &DedupeReport{Key: key, Before: df.Nrow(), After: out.Nrow()}
	rep.Removed = rep.Before - rep.After
	slog.Debug("duplicates removed", "key", key, "removed", rep.Removed)
	return out, rep, nil
}

// sortOrder returns row positions sorted ascending by value, stable, missing last.
func sortOrder(s series.Series) []int {
	mask := dataset.MissingMask(s)
	present := make([]int, 0, s.Len())
	var missing []int
	for i, m := range mask {
		if m {
			missing = append(missing, i)
		} else {
			present = append(present, i)
		}
	}
	numeric := dataset.IsNumeric(s)
	var fl []float64
	if numeric {
		fl = s.Float()
	}
	sort.SliceStable(present, func(a, b int) bool {
		ia, ib := present[a], present[b]
		if numeric {
			return fl[ia] < fl[ib]
		}
		return s.Elem(ia).String() < s.Elem(ib).String()
	})
	return append(present, missing...)
}

// cellKeys returns a canonical string per row, so 1 and 1.0 collide and every
// missing cell maps to missingKey.
func cellKeys(s series.Series) []string {
	mask := dataset.MissingMask(s)
	numeric := dataset.IsNumeric(s)
	out := make([]string, s.Len())
	for i := range out {
		switch {
		case mask[i]:
			out[i] = missingKey
		case numeric:
			out[i] = strconv.FormatFloat(s.Elem(i).Float(), 'g', -1, 64)
		default:
			out[i] = s.Elem(i).String()
		}
	}
	return out
}

// Markdown renders the dedupe summary.
func (r *DedupeReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[DEDUPLICATION]\n")
	b.WriteString(fmt.Sprintf("Key: %s\n", r.Key))
	b.WriteString(fmt.Sprintf("%d duplicates removed (%d -> %d rows)\n", r.Removed, r.Before, r.After))
	return b.String()
}

func canonicalNumber(v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
