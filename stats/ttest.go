// Package stats implements the hypothesis test used to compare two external
// rating sources over the same movies.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// TTestResult holds a paired two-sided t-test outcome.
type TTestResult struct {
	Statistic float64
	DF        int
	PValue    float64
	Alpha     float64
	Reject    bool

	N        int
	MeanDiff float64
	StdDiff  float64 // sample standard deviation of the differences
}

// Differences returns the element-wise a−b differences of two paired samples.
func Differences(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, errors.NewDimensionError("stats.Differences", len(a), len(b), 0)
	}
	if len(a) == 0 {
		return nil, errors.NewValueError("stats.Differences", "empty samples")
	}
	d := make([]float64, len(a))
	for i := range a {
		d[i] = a[i] - b[i]
	}
	return d, nil
}

// PairedTTest tests H0: mean(a−b) = 0 against the two-sided alternative at
// significance level alpha. The two samples must be paired observations of
// the same units, already on a common scale.
func PairedTTest(a, b []float64, alpha float64) (*TTestResult, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, errors.NewValueError("stats.PairedTTest", "alpha must be strictly between 0 and 1")
	}

	d, err := Differences(a, b)
	if err != nil {
		return nil, err
	}
	n := len(d)
	if n < 2 {
		return nil, errors.NewValueError("stats.PairedTTest", "need at least two pairs")
	}

	mean := stat.Mean(d, nil)
	sd := stat.StdDev(d, nil)
	if sd == 0 {
		return nil, errors.NewValueError("stats.PairedTTest", "differences have zero variance")
	}

	t := mean / (sd / math.Sqrt(float64(n)))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	p := 2 * (1 - tDist.CDF(math.Abs(t)))

	return &TTestResult{
		Statistic: t,
		DF:        n - 1,
		PValue:    p,
		Alpha:     alpha,
		Reject:    p < alpha,
		N:         n,
		MeanDiff:  mean,
		StdDiff:   sd,
	}, nil
}
