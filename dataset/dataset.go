package dataset

import (
	"math"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// Value is one cell of the raw table: a number, a categorical level, or an
// explicitly missing value.
type Value struct {
	num     float64
	str     string
	numeric bool
	missing bool
}

// Num creates a numeric value. NaN is treated as missing.
func Num(v float64) Value {
	if math.IsNaN(v) {
		return Missing()
	}
	return Value{num: v, numeric: true}
}

// Str creates a categorical level value. The empty string is treated as missing.
func Str(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{str: s}
}

// Missing creates an explicitly missing value.
func Missing() Value {
	return Value{missing: true}
}

// Float returns the numeric content, and whether the value is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric && !v.missing
}

// Level returns the categorical content, and whether the value is a level.
func (v Value) Level() (string, bool) {
	return v.str, !v.numeric && !v.missing
}

// IsMissing reports whether the value is missing.
func (v Value) IsMissing() bool {
	return v.missing
}

// Observation is one row: a fixed mapping from column name to value.
type Observation map[string]Value

// Dataset is an ordered, immutable sequence of observations sharing one
// schema. Row count is fixed at construction and the rows are copied in, so
// later mutation of the caller's maps cannot leak into the dataset.
type Dataset struct {
	schema *Schema
	rows   []Observation
}

// New validates rows against the schema and builds a dataset. Every row must
// carry exactly the schema's columns, and no feature or target column may be
// missing in every row.
func New(schema *Schema, rows []Observation) (*Dataset, error) {
	if schema == nil {
		return nil, errors.NewValueError("dataset.New", "schema must not be nil")
	}
	if len(rows) == 0 {
		return nil, errors.NewValueError("dataset.New", "dataset must contain at least one row")
	}

	copied := make([]Observation, len(rows))
	for i, row := range rows {
		if len(row) != schema.Len() {
			return nil, errors.NewDimensionError("dataset.New", schema.Len(), len(row), 1)
		}
		dst := make(Observation, len(row))
		for name, v := range row {
			if _, ok := schema.Spec(name); !ok {
				return nil, errors.NewValidationError(name, "column not declared in schema", name)
			}
			dst[name] = v
		}
		copied[i] = dst
	}

	// A column that is missing everywhere has no information and, for year
	// columns, no defined minimum. Fail now rather than during encoding.
	for _, spec := range schema.Columns() {
		if spec.Role != RoleFeature && spec.Role != RoleTarget {
			continue
		}
		allMissing := true
		for _, row := range copied {
			if !row[spec.Name].IsMissing() {
				allMissing = false
				break
			}
		}
		if allMissing {
			return nil, errors.NewMissingValueError("dataset.New", spec.Name, "column is missing in every row")
		}
	}

	return &Dataset{schema: schema, rows: copied}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() *Schema {
	return d.schema
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) Observation {
	src := d.rows[i]
	dst := make(Observation, len(src))
	for name, v := range src {
		dst[name] = v
	}
	return dst
}

// Column returns the values of a named column in row order.
func (d *Dataset) Column(name string) ([]Value, error) {
	if _, ok := d.schema.Spec(name); !ok {
		return nil, errors.NewValidationError(name, "column not declared in schema", name)
	}
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[name]
	}
	return out, nil
}

// NumericColumn returns a named column as floats, with a parallel mask of
// which entries are present. Non-numeric cells count as missing.
func (d *Dataset) NumericColumn(name string) ([]float64, []bool, error) {
	values, err := d.Column(name)
	if err != nil {
		return nil, nil, err
	}
	nums := make([]float64, len(values))
	present := make([]bool, len(values))
	for i, v := range values {
		if f, ok := v.Float(); ok {
			nums[i] = f
			present[i] = true
		}
	}
	return nums, present, nil
}
