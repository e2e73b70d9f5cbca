package plots

import (
	"errors"
	"fmt"
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when a chart is asked to draw an empty series.
var ErrNoData = errors.New("plots: no data")

// ResidualDistribution draws a density-normalised histogram of resid with a
// Gaussian KDE curve on top. bins ≤ 0 picks a bin count from the sample size.
func ResidualDistribution(resid []float64, bins int) (*Chart, error) {
	if len(resid) == 0 {
		return nil, ErrNoData
	}
	if bins <= 0 {
		bins = defaultBins(len(resid))
	}
	c := newChart("residual_distribution", "Residual distribution", "Residual", "Density")
	h, err := plotter.NewHist(plotter.Values(resid), bins)
	if err != nil {
		return nil, fmt.Errorf("residual histogram: %w", err)
	}
	h.Normalize(1)
	c.Plot.Add(h)

	sample := mstats.Sample{Xs: resid}
	if bw := mstats.BandwidthScott(sample); bw > 0 && !math.IsNaN(bw) {
		kde := &mstats.KDE{Sample: sample, Kernel: mstats.GaussianKernel, Bandwidth: bw}
		f := plotter.NewFunction(kde.PDF)
		lo, hi := minMax(resid)
		f.XMin, f.XMax = lo-3*bw, hi+3*bw
		f.Samples = 200
		f.Color = referenceColor
		f.Width = vg.Points(1.5)
		c.Plot.Add(f)
		c.Plot.Legend.Add("KDE", f)
	}
	return c, nil
}

// defaultBins is the square-root rule, never less than one bin.
func defaultBins(n int) int {
	return max(1, int(math.Ceil(math.Sqrt(float64(n)))))
}

// Probability holds a normal probability plot: theoretical quantiles against
// ordered residuals, with the least-squares line through them.
type Probability struct {
	Theoretical []float64
	Ordered     []float64
	Slope       float64
	Intercept   float64
	R           float64
}

// ProbPlot computes normal probability plot coordinates using Filliben's
// estimate of the uniform order statistic medians.
func ProbPlot(x []float64) (*Probability, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrNoData
	}
	ordered := append([]float64(nil), x...)
	sort.Float64s(ordered)

	m := fillibenMedians(n)
	norm := distuv.UnitNormal
	theo := make([]float64, n)
	for i, p := range m {
		theo[i] = norm.Quantile(p)
	}
	pp := &Probability{Theoretical: theo, Ordered: ordered, Slope: math.NaN(), Intercept: math.NaN(), R: math.NaN()}
	if n > 1 {
		pp.Intercept, pp.Slope = stat.LinearRegression(theo, ordered, nil, false)
		pp.R = stat.Correlation(theo, ordered, nil)
	}
	return pp, nil
}

func fillibenMedians(n int) []float64 {
	m := make([]float64, n)
	last := math.Pow(0.5, 1/float64(n))
	m[n-1] = last
	m[0] = 1 - last
	for i := 1; i < n-1; i++ {
		m[i] = (float64(i+1) - 0.3175) / (float64(n) + 0.365)
	}
	return m
}

// QQPlot draws the normal probability plot of resid.
func QQPlot(resid []float64) (*Chart, error) {
	pp, err := ProbPlot(resid)
	if err != nil {
		return nil, err
	}
	title := "Probability Plot"
	if !math.IsNaN(pp.R) {
		title = fmt.Sprintf("Probability Plot (R² = %.4f)", pp.R*pp.R)
	}
	c := newChart("qq_plot", title, "Theoretical quantiles", "Ordered values")
	pts := make(plotter.XYs, len(pp.Ordered))
	for i := range pts {
		pts[i] = plotter.XY{X: pp.Theoretical[i], Y: pp.Ordered[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("qq scatter: %w", err)
	}
	s.Color = residualColor
	c.Plot.Add(s)

	if !math.IsNaN(pp.Slope) {
		lo, hi := pp.Theoretical[0], pp.Theoretical[len(pp.Theoretical)-1]
		if l, err := fitLine(lo, hi, pp.Slope, pp.Intercept); err == nil {
			c.Plot.Add(l)
		}
	}
	return c, nil
}

// ResidualScatter draws predicted values against residuals with a least-squares
// regression line, for judging homoscedasticity.
func ResidualScatter(pred, resid []float64) (*Chart, error) {
	if len(pred) == 0 {
		return nil, ErrNoData
	}
	if len(pred) != len(resid) {
		return nil, fmt.Errorf("residual scatter: %d predictions but %d residuals", len(pred), len(resid))
	}
	c := newChart("residual_scatter", "Predicted vs residual", "Predicted", "Residual")
	pts := make(plotter.XYs, len(pred))
	for i := range pts {
		pts[i] = plotter.XY{X: pred[i], Y: resid[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("residual scatter: %w", err)
	}
	s.Color = residualColor
	c.Plot.Add(s)

	lo, hi := minMax(pred)
	if len(pred) > 1 && hi > lo {
		alpha, beta := stat.LinearRegression(pred, resid, nil, false)
		if l, err := fitLine(lo, hi, beta, alpha); err == nil {
			c.Plot.Add(l)
		}
	}
	return c, nil
}

func fitLine(lo, hi, slope, intercept float64) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{
		{X: lo, Y: intercept + slope*lo},
		{X: hi, Y: intercept + slope*hi},
	})
	if err != nil {
		return nil, err
	}
	l.Color = referenceColor
	l.Width = vg.Points(1.5)
	return l, nil
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
