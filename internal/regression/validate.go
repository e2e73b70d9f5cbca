package regression

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/plots"
	"github.com/go-gota/gota/dataframe"
)

// ValidateOptions tunes the diagnostic charts. Zero values use the plots defaults
// and a square-root histogram bin count.
type ValidateOptions struct {
	Target        string
	HistBins      int
	PlotWidthIn   float64
	PlotHeightIn  float64
	HeatmapSizeIn float64
}

// DiagnosticReport bundles the fitted model, the held-out residuals and the
// charts used to eyeball the OLS assumptions. No pass/fail verdict is made.
type DiagnosticReport struct {
	Model        *Model
	Predicted    []float64
	Residuals    []float64
	MeanResidual float64
	Corr         *analysis.CorrMatrix // nil when fullX has no columns
	Charts       []*plots.Chart
}

// ValidateAssumptions fits on the training split, computes residuals on the test
// split and builds the residual distribution, QQ, predicted-vs-residual and
// feature correlation charts.
func ValidateAssumptions(fullX dataframe.DataFrame, split *Split, opts ValidateOptions) (*DiagnosticReport, error) {
	if split == nil {
		return nil, fmt.Errorf("validate: nil split")
	}
	if err := split.Validate(); err != nil {
		return nil, err
	}
	target := opts.Target
	if target == "" {
		target = "y"
	}
	slog.Debug("validating regression assumptions", "train", len(split.TrainY), "test", len(split.TestY))

	model, err := FitOLSNamed(split.TrainX, split.TrainY, target)
	if err != nil {
		return nil, err
	}
	resid, pred, err := Residuals(model, split.TestX, split.TestY)
	if err != nil {
		return nil, err
	}
	rep := &DiagnosticReport{
		Model:        model,
		Predicted:    pred,
		Residuals:    resid,
		MeanResidual: MeanResidual(resid),
	}

	dist, err := plots.ResidualDistribution(resid, opts.HistBins)
	if err != nil {
		return nil, err
	}
	qq, err := plots.QQPlot(resid)
	if err != nil {
		return nil, err
	}
	sc, err := plots.ResidualScatter(pred, resid)
	if err != nil {
		return nil, err
	}
	for _, c := range []*plots.Chart{dist, qq, sc} {
		c.Resize(opts.PlotWidthIn, opts.PlotHeightIn)
	}
	rep.Charts = append(rep.Charts, dist, qq, sc)

	if fullX.Ncol() > 0 {
		corr, err := analysis.Correlation(fullX, nil)
		if err != nil {
			return nil, err
		}
		rep.Corr = corr
		if len(corr.Columns) > 0 {
			heat, err := plots.CorrelationHeatmap(corr.Columns, corr.Values)
			if err != nil {
				return nil, err
			}
			heat.Resize(opts.HeatmapSizeIn, opts.HeatmapSizeIn)
			rep.Charts = append(rep.Charts, heat)
		}
	}
	return rep, nil
}

// Chart returns the chart with the given name.
func (r *DiagnosticReport) Chart(name string) (*plots.Chart, bool) {
	for _, c := range r.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Markdown renders the summary table, the mean residual and the chart list.
func (r *DiagnosticReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[OLS SUMMARY]\n```\n")
	b.WriteString(r.Model.Summary.String())
	b.WriteString("```\n\n[RESIDUALS]\n")
	b.WriteString(fmt.Sprintf("- Test rows: %d\n", len(r.Residuals)))
	b.WriteString(fmt.Sprintf("- Mean of residuals: %.6g\n", r.MeanResidual))
	if len(r.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, c := range r.Charts {
			b.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Title))
		}
	}
	if r.Corr != nil {
		b.WriteString("\n")
		b.WriteString(r.Corr.Markdown())
	}
	return b.String()
}
