package dataset

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Typed errors below match their kind with errors.Is.
var (
	ErrColumnNotFound   = errors.New("column not found")
	ErrKeyNotFound      = errors.New("key column not found")
	ErrDegenerateColumn = errors.New("degenerate column")
	ErrRankDeficiency   = errors.New("rank deficient design matrix")
	ErrEmptyDataset     = errors.New("empty dataset")
	ErrMissingValues    = errors.New("missing values")
	ErrNonNumeric       = errors.New("non-numeric column")
)

// ColumnNotFoundError indicates a requested column is absent from the dataset.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Column)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }

// KeyNotFoundError indicates an index key column is absent. It also matches
// ErrColumnNotFound, since a key is a column.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key column not found: %q", e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound || target == ErrColumnNotFound
}

// DegenerateColumnError indicates a column has zero variance, so z-scores are undefined.
type DegenerateColumnError struct {
	Column string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("column %q has zero standard deviation", e.Column)
}

func (e *DegenerateColumnError) Is(target error) bool { return target == ErrDegenerateColumn }

// RankDeficiencyError indicates the regression design matrix is not full column rank.
type RankDeficiencyError struct {
	Rank int
	Cols int
	Rows int
}

func (e *RankDeficiencyError) Error() string {
	return fmt.Sprintf("design matrix is rank deficient: rank %d < %d columns (%d rows)", e.Rank, e.Cols, e.Rows)
}

func (e *RankDeficiencyError) Is(target error) bool { return target == ErrRankDeficiency }

// EmptyDatasetError indicates an operation received a dataset with zero rows.
type EmptyDatasetError struct {
	Op string
}

func (e *EmptyDatasetError) Error() string {
	if e.Op == "" {
		return "empty dataset"
	}
	return fmt.Sprintf("%s: empty dataset", e.Op)
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }

// MissingValuesError indicates a column that must be complete contains missing values.
type MissingValuesError struct {
	Column string
	Count  int
}

func (e *MissingValuesError) Error() string {
	return fmt.Sprintf("column %q has %d missing values", e.Column, e.Count)
}

func (e *MissingValuesError) Is(target error) bool { return target == ErrMissingValues }

// NonNumericColumnError indicates a numeric operation was asked to use a text column.
type NonNumericColumnError struct {
	Column string
	Type   string
}

func (e *NonNumericColumnError) Error() string {
	return fmt.Sprintf("column %q is not numeric (type %s)", e.Column, e.Type)
}

func (e *NonNumericColumnError) Is(target error) bool { return target == ErrNonNumeric }
