package plots

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
)

// corrGrid adapts a square matrix to plotter.GridXYZ. Row 0 of the matrix is
// drawn at the top, matching the usual heatmap orientation.
type corrGrid struct {
	vals [][]float64
}

func (g corrGrid) Dims() (c, r int) { return len(g.vals), len(g.vals) }

// Z clamps to [-1, 1] so rounding past ±1 stays on the palette. NaN passes through.
func (g corrGrid) Z(c, r int) float64 {
	return math.Max(-1, math.Min(1, g.vals[len(g.vals)-1-r][c]))
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }
func (g corrGrid) Min() float64 { return -1 }
func (g corrGrid) Max() float64 { return 1 }

// CorrelationHeatmap draws an annotated correlation matrix on a diverging
// blue-red palette fixed to [-1, 1]. NaN cells are grey.
func CorrelationHeatmap(columns []string, values [][]float64) (*Chart, error) {
	n := len(columns)
	if n == 0 {
		return nil, ErrNoData
	}
	if len(values) != n {
		return nil, fmt.Errorf("heatmap: %d columns but %d matrix rows", n, len(values))
	}
	for i, row := range values {
		if len(row) != n {
			return nil, fmt.Errorf("heatmap: row %d has %d values, want %d", i, len(row), n)
		}
	}

	c := newChart("correlation_heatmap", "Correlation heatmap", "", "")
	c.Width, c.Height = HeatmapSide, HeatmapSide

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	pal := cmap.Palette(255)
	hm := plotter.NewHeatMap(corrGrid{vals: values}, pal)
	hm.NaN = color.Gray{Y: 200}
	colors := pal.Colors()
	hm.Underflow, hm.Overflow = colors[0], colors[len(colors)-1]
	c.Plot.Add(hm)

	var pts plotter.XYs
	var labels []string
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := values[i][j]
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			labels = append(labels, fmt.Sprintf("%.1g", v))
		}
	}
	if len(pts) > 0 {
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("heatmap labels: %w", err)
		}
		for i := range l.TextStyle {
			l.TextStyle[i].XAlign = text.XCenter
			l.TextStyle[i].YAlign = text.YCenter
		}
		c.Plot.Add(l)
	}

	xt := make(plot.ConstantTicks, n)
	yt := make(plot.ConstantTicks, n)
	for i, name := range columns {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	c.Plot.X.Tick.Marker = xt
	c.Plot.Y.Tick.Marker = yt
	c.Plot.X.Tick.Label.Rotation = math.Pi / 4
	c.Plot.X.Tick.Label.XAlign = text.XRight
	return c, nil
}
