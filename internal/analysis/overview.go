package analysis

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
)

// Overview is the first look at a freshly loaded dataset.
type Overview struct {
	Name     string
	Info     *Info
	Describe *Description
	Nulls    *NullReport
	Corr     *CorrMatrix
}

// Obtain loads path and builds its overview.
func Obtain(path string, load dataset.Options, opt Options) (dataframe.DataFrame, *Overview, error) {
	df, err := dataset.Load(path, load)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	ov, err := Summarize(df, opt)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	ov.Name = filepath.Base(path)
	return df, ov, nil
}

// Summarize builds the overview of an in-memory dataset.
func Summarize(df dataframe.DataFrame, opt Options) (*Overview, error) {
	ov := &Overview{Info: Inspect(df)}
	if df.Nrow() == 0 {
		return ov, nil
	}
	var err error
	if ov.Describe, err = Describe(df); err != nil {
		return nil, err
	}
	if ov.Nulls, err = Nulls(df); err != nil {
		return nil, err
	}
	if opt.Correlations {
		if ov.Corr, err = Correlation(df, opt.DropFromCorr); err != nil {
			return nil, err
		}
	}
	slog.Debug("overview built", "rows", df.Nrow(), "numeric", len(ov.Describe.Cols))
	return ov, nil
}

// Markdown renders every computed section.
func (o *Overview) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if o.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", o.Name))
	}
	if o.Info != nil {
		b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n", o.Info.Rows, len(o.Info.Columns)))
		b.WriteString("\n")
		b.WriteString(o.Info.Markdown())
	}
	if o.Describe != nil {
		b.WriteString("\n")
		b.WriteString(o.Describe.Markdown())
	}
	if o.Nulls != nil {
		b.WriteString("\n")
		b.WriteString(o.Nulls.Markdown())
	}
	if o.Corr != nil {
		b.WriteString("\n")
		b.WriteString(o.Corr.Markdown())
	}
	return b.String()
}
