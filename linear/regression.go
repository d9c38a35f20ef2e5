// Package linear fits ordinary least squares models over named design
// matrices and simplifies them by backward elimination on the Akaike
// information criterion. A fitted Model is an immutable value: the selector
// threads new models through its loop instead of mutating a current best.
package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mshiraki/cinefit/dataset"
	"github.com/mshiraki/cinefit/pkg/errors"
)

// Model is one fitted ordinary-least-squares model: a column set, its
// coefficients, and the residual diagnostics of the fit. Immutable once
// created by Fit.
type Model struct {
	columns   []string
	coeffs    []float64
	fitted    []float64
	residuals []float64

	n, k      int
	rss       float64
	sigma2    float64 // RSS / (n - k)
	criterion float64

	xtxInv *mat.Dense // (XᵀX)⁻¹, kept for standard errors and leverage
}

// AIC computes the information criterion n·ln(RSS/n) + 2k, where k counts
// every fitted parameter including the intercept. Lower is better. A perfect
// fit (RSS = 0) scores −Inf.
func AIC(n, k int, rss float64) float64 {
	if rss <= 0 {
		return math.Inf(-1)
	}
	return float64(n)*math.Log(rss/float64(n)) + 2*float64(k)
}

// Fit computes the least-squares coefficients for y against the design
// matrix via the normal equations. The design must have strictly more rows
// than columns and full column rank; violations surface as
// UnderDeterminedError and RankDeficiencyError (naming the first dependent
// column) rather than NaN coefficients.
func Fit(X *dataset.DesignMatrix, y *mat.VecDense) (*Model, error) {
	if X == nil || y == nil {
		return nil, errors.NewValueError("linear.Fit", "design matrix and target must not be nil")
	}

	n, p := X.Dims()
	if y.Len() != n {
		return nil, errors.NewDimensionError("linear.Fit", n, y.Len(), 0)
	}
	if n <= p {
		return nil, errors.NewUnderDeterminedError("linear.Fit", n, p)
	}

	if col, rank, deficient := dependentColumn(X); deficient {
		return nil, errors.NewRankDeficiencyError("linear.Fit", col, rank, p)
	}

	var xt mat.Dense
	xt.CloneFrom(X.Matrix().T())

	var xtx mat.Dense
	xtx.Mul(&xt, X.Matrix())

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		// Full rank was verified above, so this is numerical rather than
		// structural; report it as a singular design all the same.
		return nil, errors.Wrap(errors.ErrSingularMatrix, "linear.Fit: inverting normal equations")
	}

	var xty mat.VecDense
	xty.MulVec(&xt, y)

	coeffs := mat.NewVecDense(p, nil)
	coeffs.MulVec(&xtxInv, &xty)

	if err := errors.CheckNumericalStability("linear.Fit coefficients", coeffs.RawVector().Data); err != nil {
		return nil, err
	}

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	var rss float64
	for i := 0; i < n; i++ {
		var yhat float64
		for j := 0; j < p; j++ {
			yhat += X.At(i, j) * coeffs.AtVec(j)
		}
		fitted[i] = yhat
		residuals[i] = y.AtVec(i) - yhat
		rss += residuals[i] * residuals[i]
	}

	return &Model{
		columns:   X.Columns(),
		coeffs:    append([]float64(nil), coeffs.RawVector().Data...),
		fitted:    fitted,
		residuals: residuals,
		n:         n,
		k:         p,
		rss:       rss,
		sigma2:    rss / float64(n-p),
		criterion: AIC(n, p, rss),
		xtxInv:    &xtxInv,
	}, nil
}

// dependentColumn runs modified Gram–Schmidt over the columns in order and
// returns the first column whose residual against the preceding columns is
// numerically zero, together with the total column rank.
func dependentColumn(X *dataset.DesignMatrix) (string, int, bool) {
	_, p := X.Dims()
	cols := X.Columns()

	const tol = 1e-10

	var basis [][]float64
	rank := 0
	firstDependent := ""
	for j := 0; j < p; j++ {
		v := X.ColumnValues(j)
		orig := floats.Norm(v, 2)
		for _, b := range basis {
			floats.AddScaled(v, -floats.Dot(b, v), b)
		}
		norm := floats.Norm(v, 2)
		if norm <= tol*math.Max(orig, 1) {
			if firstDependent == "" {
				firstDependent = cols[j]
			}
			continue
		}
		floats.Scale(1/norm, v)
		basis = append(basis, v)
		rank++
	}

	return firstDependent, rank, firstDependent != ""
}

// Columns returns the model's column names, intercept first.
func (m *Model) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Coefficients returns the fitted coefficients aligned with Columns.
func (m *Model) Coefficients() []float64 {
	return append([]float64(nil), m.coeffs...)
}

// Coef returns the coefficient of a named column.
func (m *Model) Coef(name string) (float64, bool) {
	for j, c := range m.columns {
		if c == name {
			return m.coeffs[j], true
		}
	}
	return 0, false
}

// Intercept returns the intercept coefficient.
func (m *Model) Intercept() float64 {
	return m.coeffs[0]
}

// FittedValues returns the per-observation fitted values.
func (m *Model) FittedValues() []float64 {
	return append([]float64(nil), m.fitted...)
}

// Residuals returns the per-observation residuals, observed minus fitted.
func (m *Model) Residuals() []float64 {
	return append([]float64(nil), m.residuals...)
}

// RSS returns the residual sum of squares.
func (m *Model) RSS() float64 {
	return m.rss
}

// ResidualVariance returns the unbiased residual-variance estimate
// RSS/(n−k).
func (m *Model) ResidualVariance() float64 {
	return m.sigma2
}

// Criterion returns the model's AIC value.
func (m *Model) Criterion() float64 {
	return m.criterion
}

// NumObservations returns n.
func (m *Model) NumObservations() int {
	return m.n
}

// NumParameters returns k, the fitted parameter count including the intercept.
func (m *Model) NumParameters() int {
	return m.k
}

// DegreesOfFreedom returns the residual degrees of freedom n−k.
func (m *Model) DegreesOfFreedom() int {
	return m.n - m.k
}
