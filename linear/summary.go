package linear

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// Coefficient is one row of the fitted-model summary table.
type Coefficient struct {
	Name     string
	Estimate float64
	StdErr   float64
	TStat    float64
	PValue   float64
}

// Summary computes the coefficient table: estimates, standard errors from
// the diagonal of σ²(XᵀX)⁻¹, and two-sided t-test p-values on n−k degrees
// of freedom.
func (m *Model) Summary() ([]Coefficient, error) {
	if m.xtxInv == nil {
		return nil, errors.NewNotFittedError("Model", "Summary")
	}
	if m.DegreesOfFreedom() <= 0 {
		return nil, errors.NewUnderDeterminedError("Model.Summary", m.n, m.k)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DegreesOfFreedom())}

	out := make([]Coefficient, len(m.columns))
	for j, name := range m.columns {
		se := math.Sqrt(m.sigma2 * m.xtxInv.At(j, j))
		t := m.coeffs[j] / se
		out[j] = Coefficient{
			Name:     name,
			Estimate: m.coeffs[j],
			StdErr:   se,
			TStat:    t,
			PValue:   2 * (1 - tDist.CDF(math.Abs(t))),
		}
	}
	return out, nil
}

// FormatSummary renders a coefficient table as fixed-width text.
func FormatSummary(coeffs []Coefficient) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %12s %12s %9s %10s\n", "column", "estimate", "std error", "t", "p-value")
	for _, c := range coeffs {
		fmt.Fprintf(&b, "%-24s %12.4f %12.4f %9.3f %10.4g\n", c.Name, c.Estimate, c.StdErr, c.TStat, c.PValue)
	}
	return b.String()
}
