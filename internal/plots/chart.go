package plots

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Default figure sizes.
var (
	DefaultWidth   = 6 * vg.Inch
	DefaultHeight  = 2.5 * vg.Inch
	HeatmapSide    = 12 * vg.Inch
	residualColor  = color.RGBA{B: 220, R: 40, G: 70, A: 255}
	referenceColor = color.RGBA{R: 220, A: 255}
)

// Chart is a chart descriptor. Nothing is drawn until Save or WriteTo is called.
type Chart struct {
	Name   string // file stem, e.g. "qq_plot"
	Title  string
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

func newChart(name, title, xlabel, ylabel string) *Chart {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return &Chart{Name: name, Title: title, Plot: p, Width: DefaultWidth, Height: DefaultHeight}
}

// Resize sets the rendered size in inches. Non-positive values keep the current size.
func (c *Chart) Resize(widthIn, heightIn float64) {
	if widthIn > 0 {
		c.Width = vg.Length(widthIn) * vg.Inch
	}
	if heightIn > 0 {
		c.Height = vg.Length(heightIn) * vg.Inch
	}
}

// Save renders the chart to path; the format follows the file extension.
func (c *Chart) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := c.Plot.Save(c.Width, c.Height, path); err != nil {
		return fmt.Errorf("save chart %s: %w", c.Name, err)
	}
	return nil
}

// WriteTo renders the chart in format ("png", "svg", "pdf", ...) to w.
func (c *Chart) WriteTo(w io.Writer, format string) error {
	wt, err := c.Plot.WriterTo(c.Width, c.Height, strings.ToLower(strings.TrimPrefix(format, ".")))
	if err != nil {
		return fmt.Errorf("render chart %s: %w", c.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart %s: %w", c.Name, err)
	}
	return nil
}

// PNG renders the chart as PNG bytes.
func (c *Chart) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteTo(&buf, "png"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
