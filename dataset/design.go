package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// InterceptColumn is the reserved name of the leading column of ones.
const InterceptColumn = "(intercept)"

// DesignMatrix is a dense numeric table with named columns. Column 0 is
// always the intercept. The matrix is owned by the DesignMatrix and treated
// as immutable once built.
type DesignMatrix struct {
	cols []string
	m    *mat.Dense
}

// NewDesignMatrix wraps a dense matrix with column names. cols[0] must be
// the intercept and names must be unique.
func NewDesignMatrix(cols []string, m *mat.Dense) (*DesignMatrix, error) {
	if m == nil {
		return nil, errors.NewValueError("NewDesignMatrix", "matrix must not be nil")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("NewDesignMatrix", "matrix must not be empty")
	}
	if len(cols) != c {
		return nil, errors.NewDimensionError("NewDesignMatrix", c, len(cols), 1)
	}
	if cols[0] != InterceptColumn {
		return nil, errors.NewValidationError("cols", "first column must be the intercept", cols[0])
	}
	seen := make(map[string]struct{}, len(cols))
	for _, name := range cols {
		if _, dup := seen[name]; dup {
			return nil, errors.NewValidationError("cols", "duplicate column name", name)
		}
		seen[name] = struct{}{}
	}
	return &DesignMatrix{cols: append([]string(nil), cols...), m: m}, nil
}

// Dims returns the row and column counts.
func (dm *DesignMatrix) Dims() (int, int) {
	return dm.m.Dims()
}

// Columns returns the column names in order.
func (dm *DesignMatrix) Columns() []string {
	return append([]string(nil), dm.cols...)
}

// ColumnIndex returns the index of a named column.
func (dm *DesignMatrix) ColumnIndex(name string) (int, bool) {
	for i, c := range dm.cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// At returns the value at row i, column j.
func (dm *DesignMatrix) At(i, j int) float64 {
	return dm.m.At(i, j)
}

// Matrix returns the underlying matrix. Callers must not mutate it.
func (dm *DesignMatrix) Matrix() mat.Matrix {
	return dm.m
}

// ColumnValues returns column j as a slice.
func (dm *DesignMatrix) ColumnValues(j int) []float64 {
	r, _ := dm.m.Dims()
	out := make([]float64, r)
	mat.Col(out, j, dm.m)
	return out
}

// Select returns a new design matrix containing the given column indices, in
// the given order. Index 0 (the intercept) must be included first.
func (dm *DesignMatrix) Select(indices []int) (*DesignMatrix, error) {
	if len(indices) == 0 || indices[0] != 0 {
		return nil, errors.NewValueError("DesignMatrix.Select", "selection must start with the intercept column")
	}
	r, c := dm.m.Dims()
	sub := mat.NewDense(r, len(indices), nil)
	cols := make([]string, len(indices))
	for k, j := range indices {
		if j < 0 || j >= c {
			return nil, errors.NewDimensionError("DesignMatrix.Select", c, j, 1)
		}
		cols[k] = dm.cols[j]
		for i := 0; i < r; i++ {
			sub.Set(i, k, dm.m.At(i, j))
		}
	}
	return NewDesignMatrix(cols, sub)
}
