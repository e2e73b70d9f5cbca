package regression

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
)

// Split is a train/test partition of features and target.
type Split struct {
	TrainX dataframe.DataFrame
	TestX  dataframe.DataFrame
	TrainY []float64
	TestY  []float64
}

// TrainTestSplit shuffles the rows of df with seed and holds out ceil(testRatio·n)
// of them for testing. With no features given, every numeric column except target
// is used.
func TrainTestSplit(df dataframe.DataFrame, target string, features []string, testRatio float64, seed int64) (*Split, error) {
	if err := dataset.RequireColumns(df, target); err != nil {
		return nil, err
	}
	if len(features) == 0 {
		for _, c := range dataset.NumericColumns(df) {
			if c != target {
				features = append(features, c)
			}
		}
		if len(features) == 0 {
			return nil, fmt.Errorf("split: no numeric feature columns besides %q", target)
		}
	}
	if err := dataset.RequireColumns(df, features...); err != nil {
		return nil, err
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, fmt.Errorf("split: test ratio %.3g must be in (0, 1)", testRatio)
	}
	n := df.Nrow()
	if n == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "split"}
	}
	if n < 2 {
		return nil, fmt.Errorf("split: need at least 2 rows, have %d", n)
	}
	y, err := dataset.CompleteFloats(df, target)
	if err != nil {
		return nil, err
	}

	nTest := int(math.Ceil(testRatio * float64(n)))
	nTest = min(max(nTest, 1), n-1)
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testIdx, trainIdx := perm[:nTest], perm[nTest:]

	x := df.Select(features)
	s := &Split{
		TrainX: x.Subset(trainIdx),
		TestX:  x.Subset(testIdx),
		TrainY: pick(y, trainIdx),
		TestY:  pick(y, testIdx),
	}
	return s, nil
}

func pick(vals []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = vals[j]
	}
	return out
}

// Validate checks that the test features carry every training column and that
// targets line up with their feature rows.
func (s *Split) Validate() error {
	if s.TrainX.Err != nil {
		return fmt.Errorf("split: train features: %w", s.TrainX.Err)
	}
	if s.TestX.Err != nil {
		return fmt.Errorf("split: test features: %w", s.TestX.Err)
	}
	if err := dataset.RequireColumns(s.TestX, s.TrainX.Names()...); err != nil {
		return err
	}
	if err := dataset.RequireColumns(s.TrainX, s.TestX.Names()...); err != nil {
		return err
	}
	if s.TrainX.Nrow() != len(s.TrainY) {
		return fmt.Errorf("split: %d train rows but %d train targets", s.TrainX.Nrow(), len(s.TrainY))
	}
	if s.TestX.Nrow() != len(s.TestY) {
		return fmt.Errorf("split: %d test rows but %d test targets", s.TestX.Nrow(), len(s.TestY))
	}
	return nil
}
