package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func vec(vals ...float64) *mat.VecDense {
	return mat.NewVecDense(len(vals), vals)
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{1, 2, 3},
			want:  0,
		},
		{
			name:  "constant offset",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2, 3, 4, 5},
			want:  1,
		},
		{
			name:  "mixed errors",
			yTrue: []float64{3, -0.5, 2, 7},
			yPred: []float64{2.5, 0, 2, 8},
			want:  0.375,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(vec(tt.yTrue...), vec(tt.yPred...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMSEErrors(t *testing.T) {
	_, err := MSE(mat.NewVecDense(1, []float64{1}), mat.NewVecDense(2, []float64{1, 2}))
	assert.Error(t, err)
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(vec(0, 0, 0, 0), vec(2, 2, 2, 2))
	require.NoError(t, err)
	assert.InDelta(t, 2, got, 1e-12)
}

func TestMAE(t *testing.T) {
	got, err := MAE(vec(3, -0.5, 2, 7), vec(2.5, 0, 2, 8))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1, 2, 3, 4},
			want:  1,
		},
		{
			name:  "mean prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2.5, 2.5, 2.5, 2.5},
			want:  0,
		},
		{
			name:  "sklearn reference",
			yTrue: []float64{3, -0.5, 2, 7},
			yPred: []float64{2.5, 0.0, 2, 8},
			want:  0.9486081370449679,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(vec(tt.yTrue...), vec(tt.yPred...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestR2ScoreZeroVariance(t *testing.T) {
	_, err := R2Score(vec(2, 2, 2), vec(1, 2, 3))
	assert.Error(t, err)
}

func TestAdjustedR2Score(t *testing.T) {
	yTrue := vec(3, -0.5, 2, 7, 4, 1)
	yPred := vec(2.5, 0.0, 2, 8, 3.5, 1.5)

	r2, err := R2Score(yTrue, yPred)
	require.NoError(t, err)

	adj, err := AdjustedR2Score(yTrue, yPred, 3)
	require.NoError(t, err)

	want := 1 - (1-r2)*5.0/3.0
	assert.InDelta(t, want, adj, 1e-12)
	assert.Less(t, adj, r2)
}

func TestAdjustedR2ScoreErrors(t *testing.T) {
	y := vec(1, 2, 3)

	_, err := AdjustedR2Score(y, y, 0)
	assert.Error(t, err)

	_, err = AdjustedR2Score(y, y, 3)
	assert.Error(t, err)
}
