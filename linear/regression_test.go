package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mshiraki/cinefit/dataset"
	"github.com/mshiraki/cinefit/pkg/errors"
)

// design builds a named design matrix from a row-major payload.
func design(t *testing.T, cols []string, r int, data []float64) *dataset.DesignMatrix {
	t.Helper()
	dm, err := dataset.NewDesignMatrix(cols, mat.NewDense(r, len(cols), data))
	require.NoError(t, err)
	return dm
}

func TestFitRecoversExactCoefficients(t *testing.T) {
	// y = 2 + 3*x1 - x2 with no noise; the fit must recover the
	// coefficients exactly (up to rounding).
	x1 := []float64{1, 2, 3, 4, 5, 6}
	x2 := []float64{2, 1, 4, 3, 6, 5}
	data := make([]float64, 0, 18)
	y := make([]float64, 6)
	for i := 0; i < 6; i++ {
		data = append(data, 1, x1[i], x2[i])
		y[i] = 2 + 3*x1[i] - x2[i]
	}
	X := design(t, []string{dataset.InterceptColumn, "x1", "x2"}, 6, data)

	m, err := Fit(X, mat.NewVecDense(6, y))
	require.NoError(t, err)

	coeffs := m.Coefficients()
	assert.InDelta(t, 2.0, coeffs[0], 1e-8)
	assert.InDelta(t, 3.0, coeffs[1], 1e-8)
	assert.InDelta(t, -1.0, coeffs[2], 1e-8)
	assert.InDelta(t, 0.0, m.RSS(), 1e-12)
}

func TestFitMatchesNormalEquationsReference(t *testing.T) {
	// Noisy data; compare against an independent normal-equations solve.
	raw := []float64{
		1, 0.5, 2.1,
		1, 1.3, 0.4,
		1, 2.2, 1.9,
		1, 3.1, 3.0,
		1, 4.0, 0.7,
		1, 5.2, 2.5,
		1, 6.1, 4.2,
	}
	yv := []float64{1.1, 2.9, 4.2, 5.8, 7.1, 9.4, 11.0}
	X := design(t, []string{dataset.InterceptColumn, "a", "b"}, 7, raw)
	y := mat.NewVecDense(7, yv)

	m, err := Fit(X, y)
	require.NoError(t, err)

	// Reference: solve (XᵀX)β = Xᵀy directly.
	xd := mat.NewDense(7, 3, raw)
	var xtx mat.Dense
	xtx.Mul(xd.T(), xd)
	var xty mat.VecDense
	xty.MulVec(xd.T(), y)
	var ref mat.VecDense
	require.NoError(t, ref.SolveVec(&xtx, &xty))

	for j, c := range m.Coefficients() {
		assert.InDelta(t, ref.AtVec(j), c, 1e-8, "coefficient %d", j)
	}

	// Residuals and fitted values are consistent with y.
	fitted := m.FittedValues()
	residuals := m.Residuals()
	for i := 0; i < 7; i++ {
		assert.InDelta(t, yv[i], fitted[i]+residuals[i], 1e-10)
	}
	assert.Equal(t, 7, m.NumObservations())
	assert.Equal(t, 3, m.NumParameters())
	assert.Equal(t, 4, m.DegreesOfFreedom())
}

func TestFitUnderDetermined(t *testing.T) {
	X := design(t, []string{dataset.InterceptColumn, "a", "b"}, 3, []float64{
		1, 1, 2,
		1, 2, 1,
		1, 3, 3,
	})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	_, err := Fit(X, y)
	var ude *errors.UnderDeterminedError
	require.ErrorAs(t, err, &ude)
	assert.Equal(t, 3, ude.Rows)
	assert.Equal(t, 3, ude.Columns)
}

func TestFitRankDeficiencyNamesColumn(t *testing.T) {
	// b is exactly 2a; the first dependent column in order is b.
	X := design(t, []string{dataset.InterceptColumn, "a", "b"}, 5, []float64{
		1, 1, 2,
		1, 2, 4,
		1, 3, 6,
		1, 4, 8,
		1, 5, 10,
	})
	y := mat.NewVecDense(5, []float64{1, 2, 3, 4, 5})

	_, err := Fit(X, y)
	var rde *errors.RankDeficiencyError
	require.ErrorAs(t, err, &rde)
	assert.Equal(t, "b", rde.Column)
	assert.Equal(t, 2, rde.Rank)
	assert.Equal(t, 3, rde.Cols)

	// No NaN coefficients leak: the fit failed outright.
	m, _ := Fit(X, y)
	assert.Nil(t, m)
}

func TestFitDimensionMismatch(t *testing.T) {
	X := design(t, []string{dataset.InterceptColumn, "a"}, 4, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
	})
	_, err := Fit(X, mat.NewVecDense(3, []float64{1, 2, 3}))
	var de *errors.DimensionError
	require.ErrorAs(t, err, &de)
}

func TestAIC(t *testing.T) {
	n, k, rss := 100, 3, 250.0
	want := float64(n)*math.Log(rss/float64(n)) + 2*float64(k)
	assert.InDelta(t, want, AIC(n, k, rss), 1e-12)

	// A perfect fit is better than anything else.
	assert.True(t, math.IsInf(AIC(10, 2, 0), -1))

	// More parameters at the same RSS is strictly worse.
	assert.Greater(t, AIC(100, 5, 250), AIC(100, 4, 250))
}

func TestModelSummary(t *testing.T) {
	// Strong signal on a, so its p-value must be tiny and the estimate
	// close to the truth.
	n := 40
	data := make([]float64, 0, n*2)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i)
		data = append(data, 1, a)
		// Deterministic, sign-alternating perturbation.
		y[i] = 5 + 3*a + 0.5*math.Sin(float64(i))
	}
	X := design(t, []string{dataset.InterceptColumn, "a"}, n, data)

	m, err := Fit(X, mat.NewVecDense(n, y))
	require.NoError(t, err)

	coeffs, err := m.Summary()
	require.NoError(t, err)
	require.Len(t, coeffs, 2)

	assert.Equal(t, dataset.InterceptColumn, coeffs[0].Name)
	assert.InDelta(t, 3.0, coeffs[1].Estimate, 0.05)
	assert.Greater(t, coeffs[1].StdErr, 0.0)
	assert.Less(t, coeffs[1].PValue, 1e-6)
}
