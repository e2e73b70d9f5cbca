package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options controls how a file is turned into a dataset.
type Options struct {
	// Delimiter for delimited text. If 0, chosen by extension (',' or '\t').
	Delimiter rune
	// NullTokens are cell values treated as missing. Empty means DefaultNullTokens.
	NullTokens []string
	// Sheet selects an xlsx sheet by name; empty means the first sheet.
	Sheet string
}

// DefaultNullTokens mirror the pandas read_csv defaults that matter for EDA work.
var DefaultNullTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

// Loader reads one file format into raw records (header row first).
type Loader interface {
	CanLoad(filename string) bool
	Records(path string, opt Options) ([][]string, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no registered loader accepts the file.
var ErrUnsupported = errors.New("unsupported dataset format")

// Load selects a loader by filename and returns the parsed dataset.
func Load(path string, opt Options) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open dataset: %w", err)
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		recs, err := l.Records(path, opt)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		df, err := FromRecords(recs, opt)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		slog.Debug("dataset loaded", "file", filepath.Base(path), "rows", df.Nrow(), "cols", df.Ncol())
		return df, nil
	}
	return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// FromRecords builds a dataset from a header row plus data rows. Column types are
// inferred; cells matching a null token become missing. A header with no data rows
// yields a zero-row dataset of text columns.
func FromRecords(records [][]string, opt Options) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, errors.New("no header row")
	}
	header := normalizeHeader(records[0])
	width := len(header)
	rows := make([][]string, 0, len(records))
	rows = append(rows, header)
	for _, r := range records[1:] {
		rows = append(rows, padRow(r, width))
	}
	if len(rows) == 1 {
		cols := make([]series.Series, width)
		for i, h := range header {
			cols[i] = series.New([]string{}, series.String, h)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}
	tokens := opt.NullTokens
	if len(tokens) == 0 {
		tokens = DefaultNullTokens
	}
	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(tokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		out[i] = h
	}
	return out
}

// padRow fits a ragged row to the header width. Missing trailing cells become empty.
func padRow(r []string, width int) []string {
	if len(r) == width {
		return r
	}
	out := make([]string, width)
	copy(out, r)
	return out
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
