package dataprep

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
)

// Indexed is a dataset whose Key column holds unique values.
type Indexed struct {
	Frame dataframe.DataFrame
	Key   string
	pos   map[string]int
}

// Lookup returns the row position of the given key value. Numeric keys are matched
// by value, so "3" and "3.0" find the same row.
func (x *Indexed) Lookup(value string) (int, bool) {
	k := value
	if dataset.IsNumeric(x.Frame.Col(x.Key)) {
		k = canonicalNumber(value)
	}
	i, ok := x.pos[k]
	return i, ok
}

// Len returns the number of indexed rows.
func (x *Indexed) Len() int { return x.Frame.Nrow() }

// IndexReport describes a SelectAndIndex run.
type IndexReport struct {
	Primary   string
	Secondary string
	// PrimaryDuplicates counts every row whose primary key occurs more than once.
	PrimaryDuplicates int
	// SecondaryDuplicates counts, among those rows, repeats of an earlier secondary key.
	SecondaryDuplicates int
	Dedupe              *DedupeReport
}

// SelectAndIndex reports duplicates on primary and secondary, deduplicates on primary
// and indexes the result by primary. df is not modified.
func SelectAndIndex(df dataframe.DataFrame, primary, secondary string) (*Indexed, *IndexReport, error) {
	for _, k := range []string{primary, secondary} {
		if !dataset.HasColumn(df, k) {
			return nil, nil, &dataset.KeyNotFoundError{Key: k}
		}
	}
	rep := &IndexReport{Primary: primary, Secondary: secondary}

	pk := cellKeys(df.Col(primary))
	freq := make(map[string]int, len(pk))
	for _, k := range pk {
		freq[k]++
	}
	var dupRows []int
	for i, k := range pk {
		if freq[k] > 1 {
			dupRows = append(dupRows, i)
		}
	}
	rep.PrimaryDuplicates = len(dupRows)

	sk := cellKeys(df.Col(secondary))
	seen := map[string]bool{}
	for _, i := range dupRows {
		if seen[sk[i]] {
			rep.SecondaryDuplicates++
			continue
		}
		seen[sk[i]] = true
	}

	out, dr, err := Deduplicate(df, primary)
	if err != nil {
		return nil, nil, err
	}
	rep.Dedupe = dr

	keys := cellKeys(out.Col(primary))
	x := &Indexed{Frame: out, Key: primary, pos: make(map[string]int, len(keys))}
	for i, k := range keys {
		x.pos[k] = i
	}
	return x, rep, nil
}

// Markdown renders the index and duplicate report.
func (r *IndexReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[INDEX]\n")
	b.WriteString(fmt.Sprintf("Primary index: %s\n", r.Primary))
	b.WriteString(fmt.Sprintf("Secondary index: %s\n\n", r.Secondary))
	b.WriteString("[DUPLICATES]\n")
	b.WriteString(fmt.Sprintf("%d duplicates found in %s\n", r.PrimaryDuplicates, r.Primary))
	b.WriteString(fmt.Sprintf("%d duplicates found in %s\n", r.SecondaryDuplicates, r.Secondary))
	if r.Dedupe != nil {
		b.WriteString(fmt.Sprintf("%d duplicates removed\n", r.Dedupe.Removed))
	}
	return b.String()
}
