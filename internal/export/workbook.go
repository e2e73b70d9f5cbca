package export

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/edakit/internal/regression"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot/vg/vgimg"
)

// Workbook sheet names.
const (
	SheetCoefficients = "Coefficients"
	SheetFit          = "Fit"
	SheetResiduals    = "Residuals"
	SheetCharts       = "Charts"
)

// rowPixels is the default xlsx row height (15pt) at 96 dpi.
const rowPixels = 20.0

// Workbook lays out a diagnostics report as an xlsx file: the coefficient table,
// fit statistics, per-row test residuals and the rendered charts. The caller owns
// the returned file and must Close it.
func Workbook(rep *regression.DiagnosticReport) (*excelize.File, error) {
	if rep == nil || rep.Model == nil || rep.Model.Summary == nil {
		return nil, fmt.Errorf("workbook: report has no fitted model")
	}
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetCoefficients); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetFit, SheetResiduals, SheetCharts} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	s := rep.Model.Summary
	coefRows := [][]any{{"term", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]"}}
	for _, c := range s.Coefs {
		coefRows = append(coefRows, []any{c.Name, cell(c.Coef), cell(c.StdErr), cell(c.T), cell(c.P), cell(c.CILow), cell(c.CIHigh)})
	}
	if err := writeTable(f, SheetCoefficients, coefRows, bold); err != nil {
		return nil, err
	}

	fitRows := [][]any{
		{"statistic", "value"},
		{"Dep. Variable", s.Target},
		{"No. Observations", s.Nobs},
		{"Df Model", s.DfModel},
		{"Df Residuals", s.DfResid},
		{"R-squared", cell(s.RSquared)},
		{"Adj. R-squared", cell(s.AdjRSquared)},
		{"F-statistic", cell(s.FStat)},
		{"Prob (F-statistic)", cell(s.FPValue)},
		{"Log-Likelihood", cell(s.LogLik)},
		{"AIC", cell(s.AIC)},
		{"BIC", cell(s.BIC)},
		{"Omnibus", cell(s.Omnibus)},
		{"Prob(Omnibus)", cell(s.OmnibusP)},
		{"Skew", cell(s.Skew)},
		{"Kurtosis", cell(s.Kurtosis)},
		{"Jarque-Bera", cell(s.JarqueBera)},
		{"Prob(JB)", cell(s.JBPValue)},
		{"Durbin-Watson", cell(s.DurbinWatson)},
		{"Cond. No.", cell(s.CondNo)},
		{"Mean of test residuals", cell(rep.MeanResidual)},
	}
	if err := writeTable(f, SheetFit, fitRows, bold); err != nil {
		return nil, err
	}

	resRows := [][]any{{"row", "actual", "predicted", "residual"}}
	for i, r := range rep.Residuals {
		resRows = append(resRows, []any{i, cell(rep.Predicted[i] + r), cell(rep.Predicted[i]), cell(r)})
	}
	if err := writeTable(f, SheetResiduals, resRows, bold); err != nil {
		return nil, err
	}

	row := 1
	for _, c := range rep.Charts {
		png, err := c.PNG()
		if err != nil {
			return nil, err
		}
		anchor, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.AddPictureFromBytes(SheetCharts, anchor, &excelize.Picture{
			Extension: ".png",
			File:      png,
			Format:    &excelize.GraphicOptions{AltText: c.Title},
		}); err != nil {
			return nil, fmt.Errorf("embed chart %s: %w", c.Name, err)
		}
		row += int(math.Ceil(c.Height.Dots(vgimg.DefaultDPI)/rowPixels)) + 2
	}

	f.SetActiveSheet(0)
	ok = true
	return f, nil
}

func writeTable(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, r := range rows {
		addr, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, addr, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("%s header style: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

// cell leaves non-finite values blank; xlsx has no NaN.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
