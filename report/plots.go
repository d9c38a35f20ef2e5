// Package report renders the diagnostic figures of the rating analysis with
// gonum/plot. It is presentation only: every function reads a fitted model or
// a value slice and writes one image file.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mshiraki/cinefit/dataset"
	"github.com/mshiraki/cinefit/linear"
	"github.com/mshiraki/cinefit/pkg/errors"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// SaveHistogram writes a histogram of values, used for the rating-difference
// sample and for residuals.
func SaveHistogram(values []float64, title, xLabel, path string) error {
	if len(values) == 0 {
		return errors.NewValueError("report.SaveHistogram", "empty sample")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), 16)
	if err != nil {
		return errors.Wrap(err, "report.SaveHistogram: building histogram")
	}
	p.Add(h)

	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.SaveHistogram: saving plot")
}

// SaveResidualsVsFitted writes the residual-versus-fitted scatter with a zero
// reference line. A pattern here means the linear form is wrong.
func SaveResidualsVsFitted(m *linear.Model, path string) error {
	fitted := m.FittedValues()
	residuals := m.Residuals()

	pts := make(plotter.XYs, len(fitted))
	for i := range fitted {
		pts[i].X = fitted[i]
		pts[i].Y = residuals[i]
	}

	p := plot.New()
	p.Title.Text = "Residuals vs fitted"
	p.X.Label.Text = "fitted value"
	p.Y.Label.Text = "residual"

	if err := addScatterWithZeroLine(p, pts); err != nil {
		return err
	}
	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.SaveResidualsVsFitted: saving plot")
}

// SaveResidualsVsPredictor writes the residual-versus-predictor scatter for
// one design-matrix column.
func SaveResidualsVsPredictor(m *linear.Model, X *dataset.DesignMatrix, column, path string) error {
	j, ok := X.ColumnIndex(column)
	if !ok {
		return errors.NewValidationError(column, "column not in the design matrix", column)
	}
	values := X.ColumnValues(j)
	residuals := m.Residuals()
	if len(values) != len(residuals) {
		return errors.NewDimensionError("report.SaveResidualsVsPredictor", len(residuals), len(values), 0)
	}

	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i].X = values[i]
		pts[i].Y = residuals[i]
	}

	p := plot.New()
	p.Title.Text = "Residuals vs " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "residual"

	if err := addScatterWithZeroLine(p, pts); err != nil {
		return err
	}
	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.SaveResidualsVsPredictor: saving plot")
}

// SaveResidualHistogram writes the residual histogram.
func SaveResidualHistogram(m *linear.Model, path string) error {
	return SaveHistogram(m.Residuals(), "Residual distribution", "residual", path)
}

// SaveQQPlot writes the normal quantile plot of the standardized residuals
// with the identity reference line. Points off the line in the tails mean
// the normal-error assumption is doubtful.
func SaveQQPlot(m *linear.Model, path string) error {
	residuals := m.Residuals()
	n := len(residuals)
	if n == 0 {
		return errors.NewValueError("report.SaveQQPlot", "model has no residuals")
	}

	mean := stat.Mean(residuals, nil)
	sd := stat.StdDev(residuals, nil)
	if sd == 0 {
		return errors.NewValueError("report.SaveQQPlot", "residuals have zero variance")
	}

	standardized := make([]float64, n)
	for i, r := range residuals {
		standardized[i] = (r - mean) / sd
	}
	sort.Float64s(standardized)

	normal := distuv.UnitNormal
	pts := make(plotter.XYs, n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		q := normal.Quantile((float64(i) + 0.5) / float64(n))
		pts[i].X = q
		pts[i].Y = standardized[i]
		lo = math.Min(lo, math.Min(q, standardized[i]))
		hi = math.Max(hi, math.Max(q, standardized[i]))
	}

	p := plot.New()
	p.Title.Text = "Normal Q-Q"
	p.X.Label.Text = "theoretical quantile"
	p.Y.Label.Text = "standardized residual"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report.SaveQQPlot: building scatter")
	}
	p.Add(scatter)

	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "report.SaveQQPlot: building reference line")
	}
	p.Add(ref)

	return errors.Wrap(p.Save(plotWidth, plotHeight, path), "report.SaveQQPlot: saving plot")
}

func addScatterWithZeroLine(p *plot.Plot, pts plotter.XYs) error {
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report: building scatter")
	}
	p.Add(scatter)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		lo = math.Min(lo, pt.X)
		hi = math.Max(hi, pt.X)
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: lo, Y: 0}, {X: hi, Y: 0}})
	if err != nil {
		return errors.Wrap(err, "report: building zero line")
	}
	p.Add(zero)
	return nil
}
