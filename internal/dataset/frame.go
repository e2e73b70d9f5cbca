package dataset

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// HasColumn reports whether df has a column called name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RequireColumns returns a ColumnNotFoundError for the first absent name.
func RequireColumns(df dataframe.DataFrame, names ...string) error {
	for _, n := range names {
		if !HasColumn(df, n) {
			return &ColumnNotFoundError{Column: n}
		}
	}
	return nil
}

// IsNumeric reports whether a series holds int or float values.
func IsNumeric(s series.Series) bool {
	return s.Type() == series.Float || s.Type() == series.Int
}

// NumericColumns lists the int and float columns of df in column order.
func NumericColumns(df dataframe.DataFrame) []string {
	var out []string
	for _, n := range df.Names() {
		if IsNumeric(df.Col(n)) {
			out = append(out, n)
		}
	}
	return out
}

// MissingMask marks missing cells. Float cells holding NaN count as missing even
// when the series was built from raw float64 values.
func MissingMask(s series.Series) []bool {
	mask := s.IsNaN()
	if s.Type() == series.Float {
		for i, v := range s.Float() {
			if math.IsNaN(v) {
				mask[i] = true
			}
		}
	}
	return mask
}

// CountMissing returns the number of missing cells in s.
func CountMissing(s series.Series) int {
	n := 0
	for _, m := range MissingMask(s) {
		if m {
			n++
		}
	}
	return n
}

// Floats returns the values of a numeric column. Missing cells are NaN.
func Floats(df dataframe.DataFrame, name string) ([]float64, error) {
	if !HasColumn(df, name) {
		return nil, &ColumnNotFoundError{Column: name}
	}
	s := df.Col(name)
	if !IsNumeric(s) {
		return nil, &NonNumericColumnError{Column: name, Type: string(s.Type())}
	}
	return s.Float(), nil
}

// CompleteFloats is Floats that rejects columns with missing values.
func CompleteFloats(df dataframe.DataFrame, name string) ([]float64, error) {
	vals, err := Floats(df, name)
	if err != nil {
		return nil, err
	}
	missing := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			missing++
		}
	}
	if missing > 0 {
		return nil, &MissingValuesError{Column: name, Count: missing}
	}
	return vals, nil
}
