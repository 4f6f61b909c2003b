package linear

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/amesfit/amesfit/pkg/errors"
)

// Coefficient is one row of a tidy coefficient table.
type Coefficient struct {
	Term      string
	Estimate  float64
	StdErr    float64
	Statistic float64
	PValue    float64
}

// FitSummary is a one-row summary of overall model fit, in the shape the
// study workflow prints after every fit.
type FitSummary struct {
	RSquared    float64
	AdjRSquared float64
	Sigma       float64
	Statistic   float64 // overall F statistic
	PValue      float64
	DF          int // model degrees of freedom (excluding intercept)
	DFResidual  int
	NObs        int
	LogLik      float64
	AIC         float64
	BIC         float64
	Deviance    float64
}

// Tidy returns one row per fitted coefficient, the intercept first.
func (r *Regression) Tidy() ([]Coefficient, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "Tidy")
	}

	td := r.tDist()
	out := make([]Coefficient, 0, r.nParams)

	estimates := make([]float64, 0, r.nParams)
	names := make([]string, 0, r.nParams)
	if r.fitIntercept {
		estimates = append(estimates, r.intercept)
		names = append(names, "(Intercept)")
	}
	estimates = append(estimates, r.coef...)
	names = append(names, r.featureNames...)

	for i, est := range estimates {
		se := r.stdErrs[i]
		tStat := est / se
		// Two-sided p-value.
		p := 2 * td.CDF(-math.Abs(tStat))
		out = append(out, Coefficient{
			Term:      names[i],
			Estimate:  est,
			StdErr:    se,
			Statistic: tStat,
			PValue:    p,
		})
	}
	return out, nil
}

// Glance returns the one-row model fit summary.
func (r *Regression) Glance() (*FitSummary, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "Glance")
	}

	n := float64(r.nObs)
	dfModel := r.nParams
	if r.fitIntercept {
		dfModel--
	}
	dfResid := r.nObs - r.nParams

	s := &FitSummary{
		RSquared:   r.rsquared,
		Sigma:      r.sigma,
		DF:         dfModel,
		DFResidual: dfResid,
		NObs:       r.nObs,
		Deviance:   r.rss,
	}
	if !math.IsNaN(r.rsquared) && dfResid > 0 {
		s.AdjRSquared = 1 - (1-r.rsquared)*(n-boolToF(r.fitIntercept))/float64(dfResid)
	} else {
		s.AdjRSquared = math.NaN()
	}

	// Overall F test against the intercept-only model.
	if dfModel > 0 && r.tss > 0 {
		s.Statistic = ((r.tss - r.rss) / float64(dfModel)) / (r.rss / float64(dfResid))
		fDist := distuv.F{D1: float64(dfModel), D2: float64(dfResid)}
		s.PValue = 1 - fDist.CDF(s.Statistic)
	} else {
		s.Statistic = math.NaN()
		s.PValue = math.NaN()
	}

	// Gaussian log-likelihood with the MLE variance RSS/n; the parameter
	// count for AIC/BIC includes the error variance.
	s.LogLik = -0.5 * n * (math.Log(2*math.Pi) + math.Log(r.rss/n) + 1)
	k := float64(r.nParams + 1)
	s.AIC = -2*s.LogLik + 2*k
	s.BIC = -2*s.LogLik + math.Log(n)*k

	return s, nil
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Summary renders the coefficient table and fit statistics to w.
func (r *Regression) Summary(w io.Writer) error {
	coefs, err := r.Tidy()
	if err != nil {
		return err
	}
	glance, err := r.Glance()
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"term", "estimate", "std.error", "statistic", "p.value"})
	for _, c := range coefs {
		tw.AppendRow(table.Row{
			c.Term,
			fmt.Sprintf("%.6g", c.Estimate),
			fmt.Sprintf("%.6g", c.StdErr),
			fmt.Sprintf("%.4g", c.Statistic),
			formatPValue(c.PValue),
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()

	_, err = fmt.Fprintf(w,
		"R²: %.4f  adj. R²: %.4f  sigma: %.4g  F: %.4g (p %s)  df: %d/%d  n: %d\nlogLik: %.2f  AIC: %.2f  BIC: %.2f  deviance: %.4g\n",
		glance.RSquared, glance.AdjRSquared, glance.Sigma,
		glance.Statistic, formatPValue(glance.PValue),
		glance.DF, glance.DFResidual, glance.NObs,
		glance.LogLik, glance.AIC, glance.BIC, glance.Deviance,
	)
	return err
}

func formatPValue(p float64) string {
	if math.IsNaN(p) {
		return "NA"
	}
	if p < 2e-16 {
		return "<2e-16"
	}
	return fmt.Sprintf("%.3g", p)
}
