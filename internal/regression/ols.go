package regression

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ConstName labels the intercept term.
const ConstName = "const"

// Model is a fitted ordinary least squares regression with an intercept.
type Model struct {
	Target   string
	Features []string
	// Params holds the intercept first, then one coefficient per feature.
	Params  []float64
	Fitted  []float64
	Resid   []float64
	Summary *Summary
}

// FitOLS fits target ~ const + features by least squares. Every column of x is a
// feature; x and y must have the same number of rows and no missing values.
func FitOLS(x dataframe.DataFrame, y []float64) (*Model, error) {
	return FitOLSNamed(x, y, "y")
}

// FitOLSNamed is FitOLS with a target name used in the summary.
func FitOLSNamed(x dataframe.DataFrame, y []float64, target string) (*Model, error) {
	n := x.Nrow()
	if n == 0 || len(y) == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "fit ols"}
	}
	if len(y) != n {
		return nil, fmt.Errorf("fit ols: %d feature rows but %d targets", n, len(y))
	}
	if err := requireComplete(y, target); err != nil {
		return nil, err
	}
	features := x.Names()
	design, err := designMatrix(x, features)
	if err != nil {
		return nil, err
	}
	p := len(features) + 1

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, errors.New("fit ols: singular value decomposition failed")
	}
	rank := svd.Rank(float64(max(n, p)) * eps)
	if rank < p {
		return nil, &dataset.RankDeficiencyError{Rank: rank, Cols: p, Rows: n}
	}

	var qr mat.QR
	qr.Factorize(design)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("fit ols: %w", err)
	}

	m := &Model{
		Target:   target,
		Features: features,
		Params:   make([]float64, p),
		Fitted:   make([]float64, n),
		Resid:    make([]float64, n),
	}
	for j := 0; j < p; j++ {
		m.Params[j] = beta.AtVec(j)
	}
	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	for i := 0; i < n; i++ {
		m.Fitted[i] = fitted.AtVec(i)
		m.Resid[i] = y[i] - m.Fitted[i]
	}
	m.Summary = summarize(m, y, &svd)
	slog.Debug("ols fitted", "rows", n, "params", p, "r2", m.Summary.RSquared)
	return m, nil
}

// eps is float64 machine epsilon, the numpy matrix_rank tolerance unit.
const eps = 2.220446049250313e-16

// Predict returns const + x·params for every row of x. x must contain every
// feature the model was fitted on; extra columns are ignored.
func (m *Model) Predict(x dataframe.DataFrame) ([]float64, error) {
	if err := dataset.RequireColumns(x, m.Features...); err != nil {
		return nil, err
	}
	design, err := designMatrix(x, m.Features)
	if err != nil {
		return nil, err
	}
	n, _ := design.Dims()
	var out mat.VecDense
	out.MulVec(design, mat.NewVecDense(len(m.Params), append([]float64(nil), m.Params...)))
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = out.AtVec(i)
	}
	return pred, nil
}

// Param returns the coefficient of a feature or of ConstName.
func (m *Model) Param(name string) (float64, bool) {
	if name == ConstName {
		return m.Params[0], true
	}
	for j, f := range m.Features {
		if f == name {
			return m.Params[j+1], true
		}
	}
	return math.NaN(), false
}

// Residuals predicts testX with m and returns actual minus predicted, row-aligned,
// together with the predictions.
func Residuals(m *Model, testX dataframe.DataFrame, testY []float64) (resid, pred []float64, err error) {
	if testX.Nrow() == 0 {
		return nil, nil, &dataset.EmptyDatasetError{Op: "residuals"}
	}
	if len(testY) != testX.Nrow() {
		return nil, nil, fmt.Errorf("residuals: %d feature rows but %d targets", testX.Nrow(), len(testY))
	}
	if err := requireComplete(testY, m.Target); err != nil {
		return nil, nil, err
	}
	pred, err = m.Predict(testX)
	if err != nil {
		return nil, nil, err
	}
	resid = make([]float64, len(pred))
	for i := range pred {
		resid[i] = testY[i] - pred[i]
	}
	return resid, pred, nil
}

// MeanResidual is the arithmetic mean of resid.
func MeanResidual(resid []float64) float64 {
	if len(resid) == 0 {
		return math.NaN()
	}
	return stat.Mean(resid, nil)
}

// designMatrix builds [1 | x[features]] row-major.
func designMatrix(x dataframe.DataFrame, features []string) (*mat.Dense, error) {
	n := x.Nrow()
	if n == 0 {
		return nil, &dataset.EmptyDatasetError{Op: "design matrix"}
	}
	p := len(features) + 1
	cols := make([][]float64, len(features))
	for j, f := range features {
		vals, err := dataset.CompleteFloats(x, f)
		if err != nil {
			return nil, err
		}
		cols[j] = vals
	}
	data := make([]float64, n*p)
	for i := 0; i < n; i++ {
		data[i*p] = 1
		for j := range cols {
			data[i*p+j+1] = cols[j][i]
		}
	}
	return mat.NewDense(n, p, data), nil
}

func requireComplete(y []float64, name string) error {
	missing := 0
	for _, v := range y {
		if math.IsNaN(v) {
			missing++
		}
	}
	if missing > 0 {
		return &dataset.MissingValuesError{Column: name, Count: missing}
	}
	return nil
}
