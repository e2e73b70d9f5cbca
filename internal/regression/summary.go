package regression

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CoefRow is one line of the coefficient table.
type CoefRow struct {
	Name   string
	Coef   float64
	StdErr float64
	T      float64
	P      float64
	CILow  float64
	CIHigh float64
}

// Summary carries the fit statistics and residual diagnostics of a Model.
type Summary struct {
	Target       string
	Nobs         int
	DfModel      int
	DfResid      int
	RSquared     float64
	AdjRSquared  float64
	FStat        float64
	FPValue      float64
	LogLik       float64
	AIC          float64
	BIC          float64
	Coefs        []CoefRow
	Omnibus      float64
	OmnibusP     float64
	Skew         float64
	Kurtosis     float64 // Pearson, normal = 3
	JarqueBera   float64
	JBPValue     float64
	DurbinWatson float64
	CondNo       float64
}

func summarize(m *Model, y []float64, svd *mat.SVD) *Summary {
	n := len(y)
	p := len(m.Params)
	s := &Summary{
		Target:  m.Target,
		Nobs:    n,
		DfModel: p - 1,
		DfResid: n - p,
		CondNo:  svd.Cond(),
	}

	var ssr float64
	for _, e := range m.Resid {
		ssr += e * e
	}
	ybar := stat.Mean(y, nil)
	var tss float64
	for _, v := range y {
		tss += (v - ybar) * (v - ybar)
	}
	dfr := float64(s.DfResid)
	dfm := float64(s.DfModel)
	s.RSquared = 1 - ssr/tss
	s.AdjRSquared = 1 - float64(n-1)/dfr*(1-s.RSquared)
	if s.DfModel > 0 && s.DfResid > 0 {
		s.FStat = ((tss - ssr) / dfm) / (ssr / dfr)
		s.FPValue = distuv.F{D1: dfm, D2: dfr}.Survival(s.FStat)
	} else {
		s.FStat, s.FPValue = math.NaN(), math.NaN()
	}

	nf := float64(n)
	s.LogLik = -nf / 2 * (math.Log(2*math.Pi) + math.Log(ssr/nf) + 1)
	s.AIC = -2*s.LogLik + 2*float64(p)
	s.BIC = -2*s.LogLik + float64(p)*math.Log(nf)

	s.Coefs = coefTable(m, svd, ssr, s.DfResid)

	s.Skew, s.Kurtosis = skewKurtosis(m.Resid)
	s.JarqueBera = nf / 6 * (s.Skew*s.Skew + (s.Kurtosis-3)*(s.Kurtosis-3)/4)
	s.JBPValue = distuv.ChiSquared{K: 2}.Survival(s.JarqueBera)
	s.Omnibus, s.OmnibusP = omnibus(m.Resid)
	s.DurbinWatson = durbinWatson(m.Resid)
	return s
}

// coefTable computes standard errors from (XᵀX)⁻¹ = V·diag(1/s²)·Vᵀ.
func coefTable(m *Model, svd *mat.SVD, ssr float64, dfResid int) []CoefRow {
	p := len(m.Params)
	sv := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	sigma2 := math.NaN()
	if dfResid > 0 {
		sigma2 = ssr / float64(dfResid)
	}
	tq := math.NaN()
	var tdist distuv.StudentsT
	if dfResid > 0 {
		tdist = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dfResid)}
		tq = tdist.Quantile(0.975)
	}

	rows := make([]CoefRow, p)
	for j := 0; j < p; j++ {
		var d float64
		for k := range sv {
			d += v.At(j, k) * v.At(j, k) / (sv[k] * sv[k])
		}
		se := math.Sqrt(sigma2 * d)
		name := ConstName
		if j > 0 {
			name = m.Features[j-1]
		}
		r := CoefRow{Name: name, Coef: m.Params[j], StdErr: se, T: m.Params[j] / se}
		if dfResid > 0 {
			r.P = 2 * tdist.Survival(math.Abs(r.T))
		} else {
			r.P = math.NaN()
		}
		r.CILow = r.Coef - tq*se
		r.CIHigh = r.Coef + tq*se
		rows[j] = r
	}
	return rows
}

// skewKurtosis returns the biased sample skewness and Pearson kurtosis.
func skewKurtosis(x []float64) (skew, kurt float64) {
	m2 := stat.Moment(2, x, nil)
	m3 := stat.Moment(3, x, nil)
	m4 := stat.Moment(4, x, nil)
	return m3 / math.Pow(m2, 1.5), m4 / (m2 * m2)
}

// durbinWatson tests first-order autocorrelation of residuals in row order.
func durbinWatson(e []float64) float64 {
	var num, den float64
	for i, v := range e {
		den += v * v
		if i > 0 {
			d := v - e[i-1]
			num += d * d
		}
	}
	return num / den
}

// omnibus is D'Agostino's K² normality test: squared skew and kurtosis z-scores,
// chi-squared with 2 degrees of freedom. Needs at least 8 observations.
func omnibus(x []float64) (k2, p float64) {
	if len(x) < 8 {
		return math.NaN(), math.NaN()
	}
	skew, kurt := skewKurtosis(x)
	zs := skewZ(skew, float64(len(x)))
	zk := kurtosisZ(kurt, float64(len(x)))
	k2 = zs*zs + zk*zk
	return k2, distuv.ChiSquared{K: 2}.Survival(k2)
}

func skewZ(b2, n float64) float64 {
	y := b2 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	ya := y / alpha
	return delta * math.Log(ya+math.Sqrt(ya*ya+1))
}

func kurtosisZ(b2, n float64) float64 {
	e := 3 * (n - 1) / (n + 1)
	varb2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(varb2)
	sqrtbeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtbeta1*(2/sqrtbeta1+math.Sqrt(1+4/(sqrtbeta1*sqrtbeta1)))
	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return math.NaN()
	}
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)
	return (term1 - term2) / math.Sqrt(2/(9*a))
}

// String renders the summary as a plain-text table.
func (s *Summary) String() string {
	var b strings.Builder
	rule := strings.Repeat("=", 78) + "\n"
	thin := strings.Repeat("-", 78) + "\n"
	b.WriteString(center("OLS Regression Results", 78))
	b.WriteString(rule)
	pair := func(l1, v1, l2, v2 string) {
		b.WriteString(fmt.Sprintf("%-18s %20s   %-18s %17s\n", l1, v1, l2, v2))
	}
	pair("Dep. Variable:", s.Target, "R-squared:", f3(s.RSquared))
	pair("Model:", "OLS", "Adj. R-squared:", f3(s.AdjRSquared))
	pair("Method:", "Least Squares", "F-statistic:", g4(s.FStat))
	pair("No. Observations:", fmt.Sprintf("%d", s.Nobs), "Prob (F-statistic):", g3(s.FPValue))
	pair("Df Residuals:", fmt.Sprintf("%d", s.DfResid), "Log-Likelihood:", g5(s.LogLik))
	pair("Df Model:", fmt.Sprintf("%d", s.DfModel), "AIC:", g4(s.AIC))
	pair("", "", "BIC:", g4(s.BIC))
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("%-16s %10s %10s %10s %10s %10s %10s\n", "", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]"))
	b.WriteString(thin)
	for _, r := range s.Coefs {
		name := r.Name
		if len(name) > 16 {
			name = name[:16]
		}
		b.WriteString(fmt.Sprintf("%-16s %10s %10s %10s %10s %10s %10s\n", name,
			cell(r.Coef, 4), cell(r.StdErr, 3), cell(r.T, 3), cell(r.P, 3), cell(r.CILow, 3), cell(r.CIHigh, 3)))
	}
	b.WriteString(rule)
	pair("Omnibus:", f3(s.Omnibus), "Durbin-Watson:", f3(s.DurbinWatson))
	pair("Prob(Omnibus):", f3(s.OmnibusP), "Jarque-Bera (JB):", f3(s.JarqueBera))
	pair("Skew:", f3(s.Skew), "Prob(JB):", g3(s.JBPValue))
	pair("Kurtosis:", f3(s.Kurtosis), "Cond. No.", g3(s.CondNo))
	b.WriteString(rule)
	return b.String()
}

// Coef returns the row for name.
func (s *Summary) Coef(name string) (CoefRow, bool) {
	for _, r := range s.Coefs {
		if r.Name == name {
			return r, true
		}
	}
	return CoefRow{}, false
}

func center(s string, w int) string {
	pad := (w - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}

// cell formats v with prec decimals, switching to %g when that overflows the column.
func cell(v float64, prec int) string {
	if s := strconv.FormatFloat(v, 'f', prec, 64); len(s) <= cellWidth {
		return s
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

const cellWidth = 10

func f3(v float64) string { return fmt.Sprintf("%.3f", v) }
func g3(v float64) string { return fmt.Sprintf("%.3g", v) }
func g4(v float64) string { return fmt.Sprintf("%.4g", v) }
func g5(v float64) string { return fmt.Sprintf("%.5g", v) }
