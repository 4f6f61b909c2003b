// Package plots renders the study's diagnostic figures as PNG files:
// target histograms, scatter plots with a fitted line, and
// predicted-versus-actual charts.
package plots

import (
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

var (
	fillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	lineColor = color.RGBA{R: 220, G: 80, B: 60, A: 255}
)

// Histogram renders the distribution of a numeric column into path.
func Histogram(col *dataset.Column, bins int, title, path string) error {
	if col.Kind != dataset.Numeric {
		return errors.NewColumnError("plots.Histogram", col.Name, "not a numeric column")
	}
	if col.Len() == 0 {
		return errors.NewValueError("plots.Histogram", "empty column")
	}
	if bins < 1 {
		bins = 20
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = col.Name
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(col.Floats), bins)
	if err != nil {
		return errors.Wrapf(err, "histogram of %s", col.Name)
	}
	h.FillColor = fillColor
	p.Add(h)

	return save(p, path)
}

// Scatter renders y against x. When fitted is non-nil it must hold one
// slope and an intercept, and the fitted line is drawn across the x range.
func Scatter(x, y *dataset.Column, fitted *FitLine, title, path string) error {
	for _, col := range []*dataset.Column{x, y} {
		if col.Kind != dataset.Numeric {
			return errors.NewColumnError("plots.Scatter", col.Name, "not a numeric column")
		}
	}
	if x.Len() != y.Len() {
		return errors.NewDimensionError("plots.Scatter", x.Len(), y.Len(), 0)
	}
	if x.Len() == 0 {
		return errors.NewValueError("plots.Scatter", "empty columns")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x.Name
	p.Y.Label.Text = y.Name

	pts := make(plotter.XYs, x.Len())
	lo, hi := x.Floats[0], x.Floats[0]
	for i := range pts {
		pts[i].X = x.Floats[i]
		pts[i].Y = y.Floats[i]
		if x.Floats[i] < lo {
			lo = x.Floats[i]
		}
		if x.Floats[i] > hi {
			hi = x.Floats[i]
		}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	sc.GlyphStyle.Color = fillColor
	p.Add(sc)

	if fitted != nil {
		line, err := plotter.NewLine(plotter.XYs{
			{X: lo, Y: fitted.Intercept + fitted.Slope*lo},
			{X: hi, Y: fitted.Intercept + fitted.Slope*hi},
		})
		if err != nil {
			return errors.Wrap(err, "fitted line")
		}
		line.Color = lineColor
		p.Add(line)
		p.Legend.Add("fit", line)
	}

	return save(p, path)
}

// FitLine is a fitted simple-regression line for Scatter.
type FitLine struct {
	Intercept float64
	Slope     float64
}

// PredictedVsActual renders predictions against observed values with the
// identity line; points hug the diagonal when the model fits well.
func PredictedVsActual(actual *dataset.Column, predicted mat.Matrix, title, path string) error {
	if actual.Kind != dataset.Numeric {
		return errors.NewColumnError("plots.PredictedVsActual", actual.Name, "not a numeric column")
	}
	n, c := predicted.Dims()
	if c != 1 {
		return errors.NewValueError("plots.PredictedVsActual", "predictions must be a column vector")
	}
	if n != actual.Len() {
		return errors.NewDimensionError("plots.PredictedVsActual", actual.Len(), n, 0)
	}
	if n == 0 {
		return errors.NewValueError("plots.PredictedVsActual", "empty columns")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = actual.Name
	p.Y.Label.Text = "predicted"

	pts := make(plotter.XYs, n)
	lo, hi := actual.Floats[0], actual.Floats[0]
	for i := 0; i < n; i++ {
		pts[i].X = actual.Floats[i]
		pts[i].Y = predicted.At(i, 0)
		if actual.Floats[i] < lo {
			lo = actual.Floats[i]
		}
		if actual.Floats[i] > hi {
			hi = actual.Floats[i]
		}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	sc.GlyphStyle.Color = fillColor
	p.Add(sc)

	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	ident.Color = lineColor
	p.Add(ident)
	p.Legend.Add("y = x", ident)

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
