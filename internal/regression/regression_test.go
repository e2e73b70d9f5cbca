package regression

import (
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/plots"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(cols map[string][]float64, order ...string) dataframe.DataFrame {
	ss := make([]series.Series, 0, len(order))
	for _, name := range order {
		ss = append(ss, series.New(cols[name], series.Float, name))
	}
	return dataframe.New(ss...)
}

func TestPerfectLineHasZeroResiduals(t *testing.T) {
	var xs, ys []float64
	for i := 0; i < 10; i++ {
		xs = append(xs, float64(i))
		ys = append(ys, 2*float64(i)+3)
	}
	m, err := FitOLS(frame(map[string][]float64{"x": xs}, "x"), ys)
	require.NoError(t, err)
	c, _ := m.Param(ConstName)
	slope, ok := m.Param("x")
	require.True(t, ok)
	assert.InDelta(t, 3, c, 1e-9)
	assert.InDelta(t, 2, slope, 1e-9)
	assert.InDelta(t, 1, m.Summary.RSquared, 1e-12)

	testX := frame(map[string][]float64{"x": {10, 11, -4.5}}, "x")
	resid, pred, err := Residuals(m, testX, []float64{23, 25, -6})
	require.NoError(t, err)
	require.Len(t, resid, 3)
	for i := range resid {
		assert.InDelta(t, 0, resid[i], 1e-9)
	}
	assert.InDelta(t, 23, pred[0], 1e-9)
	assert.InDelta(t, 0, MeanResidual(resid), 1e-9)
}

func TestSummaryTableKeepsWidthOnPerfectFit(t *testing.T) {
	var xs, ys []float64
	for i := 0; i < 12; i++ {
		xs = append(xs, float64(i)*0.37)
		ys = append(ys, 5*float64(i)*0.37-1)
	}
	m, err := FitOLS(frame(map[string][]float64{"x": xs}, "x"), ys)
	require.NoError(t, err)

	var header string
	var rows []string
	for _, l := range strings.Split(m.Summary.String(), "\n") {
		switch {
		case strings.Contains(l, "coef") && strings.Contains(l, "std err"):
			header = l
		case strings.HasPrefix(l, ConstName+" "), strings.HasPrefix(l, "x "):
			rows = append(rows, l)
		}
	}
	require.NotEmpty(t, header)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Len(t, r, len(header), r)
		assert.Len(t, strings.Fields(r), 7, r)
	}

	assert.Equal(t, "8.601e+14", cell(860086290549637.375, 3))
	assert.Equal(t, "2.500", cell(2.5, 3))
	assert.Equal(t, "NaN", cell(math.NaN(), 3))
}

func TestSummaryMatchesKnownFit(t *testing.T) {
	x := frame(map[string][]float64{"x": {1, 2, 3, 4, 5}}, "x")
	m, err := FitOLSNamed(x, []float64{2, 4, 5, 4, 5}, "score")
	require.NoError(t, err)

	assert.InDelta(t, 2.2, m.Params[0], 1e-12)
	assert.InDelta(t, 0.6, m.Params[1], 1e-12)
	want := []float64{-0.8, 0.6, 1.0, -0.6, -0.2}
	for i := range want {
		assert.InDelta(t, want[i], m.Resid[i], 1e-12)
	}

	s := m.Summary
	assert.Equal(t, "score", s.Target)
	assert.Equal(t, 5, s.Nobs)
	assert.Equal(t, 1, s.DfModel)
	assert.Equal(t, 3, s.DfResid)
	assert.InDelta(t, 0.6, s.RSquared, 1e-12)
	assert.InDelta(t, 0.466667, s.AdjRSquared, 1e-6)
	assert.InDelta(t, 4.5, s.FStat, 1e-9)
	assert.InDelta(t, -5.259770, s.LogLik, 1e-6)
	assert.InDelta(t, 14.519539, s.AIC, 1e-6)
	assert.InDelta(t, 13.738415, s.BIC, 1e-6)

	slope, ok := s.Coef("x")
	require.True(t, ok)
	assert.InDelta(t, 0.282843, slope.StdErr, 1e-6)
	assert.InDelta(t, 2.121320, slope.T, 1e-6)
	assert.InDelta(t, 0.124027, slope.P, 1e-5)
	assert.InDelta(t, 0.6-3.182446*0.282843, slope.CILow, 1e-5)
	assert.InDelta(t, 0.6+3.182446*0.282843, slope.CIHigh, 1e-5)
	// one regressor: the F test and the slope t test agree
	assert.InDelta(t, slope.P, s.FPValue, 1e-6)

	icpt, ok := s.Coef(ConstName)
	require.True(t, ok)
	assert.InDelta(t, 0.938083, icpt.StdErr, 1e-6)

	assert.InDelta(t, 2.016667, s.DurbinWatson, 1e-6)
	assert.InDelta(t, 0.288675, s.Skew, 1e-6)
	assert.InDelta(t, 1.45, s.Kurtosis, 1e-9)
	assert.InDelta(t, 0.569965, s.JarqueBera, 1e-6)
	assert.True(t, math.IsNaN(s.Omnibus), "omnibus needs 8 observations")
	assert.Greater(t, s.CondNo, 1.0)

	out := s.String()
	assert.Contains(t, out, "OLS Regression Results")
	assert.Contains(t, out, "score")
	assert.Contains(t, out, "const")
	assert.Contains(t, out, "Durbin-Watson:")
}

func TestOmnibusOnLargerSample(t *testing.T) {
	var e []float64
	for i := 0; i < 40; i++ {
		e = append(e, math.Sin(float64(i)*1.7))
	}
	k2, p := omnibus(e)
	assert.False(t, math.IsNaN(k2))
	assert.GreaterOrEqual(t, k2, 0.0)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestFitOLSRankDeficiency(t *testing.T) {
	collinear := frame(map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {2, 4, 6, 8, 10},
	}, "a", "b")
	_, err := FitOLS(collinear, []float64{1, 3, 2, 5, 4})
	var rd *dataset.RankDeficiencyError
	require.True(t, errors.As(err, &rd))
	assert.Equal(t, 2, rd.Rank)
	assert.Equal(t, 3, rd.Cols)

	tooFew := frame(map[string][]float64{"a": {1, 2}, "b": {3, 7}}, "a", "b")
	_, err = FitOLS(tooFew, []float64{1, 2})
	assert.ErrorIs(t, err, dataset.ErrRankDeficiency)
}

func TestFitOLSInputErrors(t *testing.T) {
	x := frame(map[string][]float64{"a": {1, 2, 3, 4}}, "a")

	_, err := FitOLS(x, []float64{1, math.NaN(), 3, 4})
	assert.ErrorIs(t, err, dataset.ErrMissingValues)

	holes := frame(map[string][]float64{"a": {1, math.NaN(), 3, 4}}, "a")
	_, err = FitOLS(holes, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, dataset.ErrMissingValues)

	text := dataframe.New(series.New([]string{"p", "q", "r", "s"}, series.String, "label"))
	_, err = FitOLS(text, []float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, dataset.ErrNonNumeric)

	empty := frame(map[string][]float64{"a": {}}, "a")
	_, err = FitOLS(empty, nil)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)

	_, err = FitOLS(x, []float64{1, 2})
	assert.Error(t, err)
}

func TestPredictRequiresTrainingColumns(t *testing.T) {
	x := frame(map[string][]float64{"a": {1, 2, 3, 4}, "b": {0, 1, 0, 2}}, "a", "b")
	m, err := FitOLS(x, []float64{1, 2, 2, 5})
	require.NoError(t, err)

	partial := frame(map[string][]float64{"a": {5}}, "a")
	_, err = m.Predict(partial)
	var cnf *dataset.ColumnNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, "b", cnf.Column)

	// column order and extra columns do not matter
	reordered := frame(map[string][]float64{"b": {0, 1}, "a": {1, 2}, "z": {9, 9}}, "b", "a", "z")
	pred, err := m.Predict(reordered)
	require.NoError(t, err)
	assert.InDelta(t, m.Fitted[0], pred[0], 1e-9)
	assert.InDelta(t, m.Fitted[1], pred[1], 1e-9)
}

func splitFixture() dataframe.DataFrame {
	var id, x1, x2, y []float64
	for i := 0; i < 50; i++ {
		f := float64(i)
		id = append(id, f)
		x1 = append(x1, f)
		x2 = append(x2, math.Mod(f*7, 11))
		y = append(y, 1+2*f+3*x2[i]+math.Sin(f))
	}
	return frame(map[string][]float64{"id": id, "x1": x1, "x2": x2, "y": y}, "id", "x1", "x2", "y")
}

func TestTrainTestSplit(t *testing.T) {
	df := splitFixture()
	s, err := TrainTestSplit(df, "y", []string{"x1", "x2"}, 0.2, 42)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, 10, s.TestX.Nrow())
	assert.Equal(t, 40, s.TrainX.Nrow())
	assert.Len(t, s.TestY, 10)
	assert.Equal(t, []string{"x1", "x2"}, s.TrainX.Names())

	again, err := TrainTestSplit(df, "y", []string{"x1", "x2"}, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, s.TestY, again.TestY)

	all := append(append([]float64(nil), s.TrainY...), s.TestY...)
	sort.Float64s(all)
	want := df.Col("y").Float()
	sort.Float64s(want)
	assert.Equal(t, want, all)

	auto, err := TrainTestSplit(df, "y", nil, 0.25, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "x1", "x2"}, auto.TrainX.Names())
	assert.Equal(t, 13, auto.TestX.Nrow())
}

func TestTrainTestSplitErrors(t *testing.T) {
	df := splitFixture()
	_, err := TrainTestSplit(df, "price", nil, 0.2, 1)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	_, err = TrainTestSplit(df, "y", []string{"x9"}, 0.2, 1)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	_, err = TrainTestSplit(df, "y", nil, 1.5, 1)
	assert.Error(t, err)

	bad := &Split{
		TrainX: frame(map[string][]float64{"a": {1}, "b": {2}}, "a", "b"),
		TestX:  frame(map[string][]float64{"a": {1}}, "a"),
		TrainY: []float64{1},
		TestY:  []float64{1},
	}
	var cnf *dataset.ColumnNotFoundError
	require.True(t, errors.As(bad.Validate(), &cnf))
	assert.Equal(t, "b", cnf.Column)
}

func TestValidateAssumptions(t *testing.T) {
	df := splitFixture()
	s, err := TrainTestSplit(df, "y", []string{"x1", "x2"}, 0.2, 7)
	require.NoError(t, err)

	rep, err := ValidateAssumptions(df.Select([]string{"x1", "x2", "y"}), s, ValidateOptions{Target: "y", HistBins: 5})
	require.NoError(t, err)
	require.Len(t, rep.Residuals, 10)
	assert.Less(t, math.Abs(rep.MeanResidual), 1.0)
	assert.InDelta(t, 2, rep.Model.Params[1], 0.25)
	assert.InDelta(t, 3, rep.Model.Params[2], 0.25)

	var names []string
	for _, c := range rep.Charts {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"residual_distribution", "qq_plot", "residual_scatter", "correlation_heatmap"}, names)
	_, ok := rep.Chart("qq_plot")
	assert.True(t, ok)

	md := rep.Markdown()
	assert.True(t, strings.HasPrefix(md, "[OLS SUMMARY]"))
	assert.Contains(t, md, "Mean of residuals")
	assert.Contains(t, md, "[CORRELATIONS]")
}

func TestValidateAssumptionsZeroOptions(t *testing.T) {
	df := splitFixture()
	s, err := TrainTestSplit(df, "y", []string{"x1", "x2"}, 0.2, 7)
	require.NoError(t, err)

	rep, err := ValidateAssumptions(df.Select([]string{"x1", "x2"}), s, ValidateOptions{})
	require.NoError(t, err)
	require.Len(t, rep.Charts, 4)
	assert.Equal(t, "y", rep.Model.Summary.Target)
	for _, c := range rep.Charts {
		b, err := c.PNG()
		require.NoError(t, err, c.Name)
		assert.NotEmpty(t, b, c.Name)
	}
	dist, ok := rep.Chart("residual_distribution")
	require.True(t, ok)
	assert.Equal(t, plots.DefaultWidth, dist.Width)
	heat, ok := rep.Chart("correlation_heatmap")
	require.True(t, ok)
	assert.Equal(t, plots.HeatmapSide, heat.Width)
}

func TestValidateAssumptionsPropagatesRankDeficiency(t *testing.T) {
	df := splitFixture()
	df = df.Mutate(series.New(df.Col("x1").Float(), series.Float, "x1_copy"))
	s, err := TrainTestSplit(df, "y", []string{"x1", "x1_copy"}, 0.2, 3)
	require.NoError(t, err)
	_, err = ValidateAssumptions(dataframe.DataFrame{}, s, ValidateOptions{})
	assert.ErrorIs(t, err, dataset.ErrRankDeficiency)
}
