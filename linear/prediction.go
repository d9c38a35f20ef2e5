package linear

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// Bounds are the physical limits of the target scale, used only to flag
// intervals that cross them. The model never clips its output.
type Bounds struct {
	Lower float64
	Upper float64
}

// ScoreBounds is the 0–100 scale of the averaged rating score.
var ScoreBounds = Bounds{Lower: 0, Upper: 100}

// Prediction is a point estimate with a prediction interval.
type Prediction struct {
	Point      float64
	Lower      float64
	Upper      float64
	Confidence float64

	// OutOfBounds is set when the interval crosses the supplied physical
	// bounds; a reporting flag, not a correction.
	OutOfBounds bool
}

// PredictPoint computes x·β for one encoded input row, keyed by column name.
// Every non-intercept column of the model must be present; there is no
// implicit imputation.
func (m *Model) PredictPoint(row map[string]float64) (float64, error) {
	if len(m.coeffs) == 0 {
		return 0, errors.NewNotFittedError("Model", "PredictPoint")
	}

	sum := m.coeffs[0]
	for j := 1; j < len(m.columns); j++ {
		v, ok := row[m.columns[j]]
		if !ok {
			return 0, errors.NewMissingValueError("Model.PredictPoint", m.columns[j], "required by the model but absent from the input")
		}
		sum += v * m.coeffs[j]
	}
	return sum, nil
}

// Predict computes a point prediction and a prediction interval at the given
// confidence level, using the residual variance and the leverage of the new
// point. When bounds is non-nil and the interval crosses it, the prediction
// is flagged and a BoundsExceededWarning is raised.
func (m *Model) Predict(row map[string]float64, confidence float64, bounds *Bounds) (*Prediction, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, errors.NewValueError("Model.Predict", "confidence must be strictly between 0 and 1")
	}
	if m.xtxInv == nil {
		return nil, errors.NewNotFittedError("Model", "Predict")
	}

	point, err := m.PredictPoint(row)
	if err != nil {
		return nil, err
	}

	// x'(XᵀX)⁻¹x, the leverage of the new point.
	x := make([]float64, len(m.columns))
	x[0] = 1
	for j := 1; j < len(m.columns); j++ {
		x[j] = row[m.columns[j]]
	}
	var leverage float64
	for i := range x {
		var dot float64
		for j := range x {
			dot += m.xtxInv.At(i, j) * x[j]
		}
		leverage += x[i] * dot
	}

	se := math.Sqrt(m.sigma2 * (1 + leverage))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DegreesOfFreedom())}
	q := tDist.Quantile(1 - (1-confidence)/2)

	pred := &Prediction{
		Point:      point,
		Lower:      point - q*se,
		Upper:      point + q*se,
		Confidence: confidence,
	}

	if bounds != nil && (pred.Lower < bounds.Lower || pred.Upper > bounds.Upper) {
		pred.OutOfBounds = true
		errors.Warn(errors.NewBoundsExceededWarning(pred.Lower, pred.Upper, bounds.Lower, bounds.Upper))
	}

	return pred, nil
}
