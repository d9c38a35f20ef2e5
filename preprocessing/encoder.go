// Package preprocessing turns a raw movie dataset into the numeric design
// matrix and target vector consumed by the linear package. Encoding is
// fit-then-transform: each encoder learns what it needs from the full column,
// then maps single cells, so prediction-time inputs are encoded against the
// exact training schema.
package preprocessing

import (
	"fmt"
	"sort"

	"github.com/mshiraki/cinefit/core/model"
	"github.com/mshiraki/cinefit/dataset"
	"github.com/mshiraki/cinefit/pkg/errors"
)

// BinaryEncoder maps a two-level categorical column to {0,1}.
// levels[0] encodes to 0 and levels[1] to 1, as fixed by the schema.
type BinaryEncoder struct {
	column string
	levels [2]string
}

// NewBinaryEncoder creates an encoder for one binary column.
func NewBinaryEncoder(column string, levels [2]string) *BinaryEncoder {
	return &BinaryEncoder{column: column, levels: levels}
}

// ColumnNames returns the single output column name.
func (e *BinaryEncoder) ColumnNames() []string {
	return []string{e.column}
}

// Encode maps one cell to its indicator. The second return is false when the
// cell is missing.
func (e *BinaryEncoder) Encode(v dataset.Value) ([]float64, bool, error) {
	if v.IsMissing() {
		return nil, false, nil
	}
	level, ok := v.Level()
	if !ok {
		return nil, false, errors.NewValidationError(e.column, "binary column holds a non-categorical value", v)
	}
	switch level {
	case e.levels[0]:
		return []float64{0}, true, nil
	case e.levels[1]:
		return []float64{1}, true, nil
	default:
		return nil, false, errors.NewInvalidEncodingError("BinaryEncoder.Encode", e.column, level)
	}
}

// YearRescaler shifts a year-valued column so the earliest observed value
// maps to 0.
type YearRescaler struct {
	model.BaseEstimator
	column string
	min    float64
}

// NewYearRescaler creates a rescaler for one year column.
func NewYearRescaler(column string) *YearRescaler {
	return &YearRescaler{column: column}
}

// Fit computes the minimum over the non-missing values. A column with no
// observed value has no defined minimum and fails.
func (e *YearRescaler) Fit(values []dataset.Value) error {
	found := false
	for _, v := range values {
		f, ok := v.Float()
		if !ok {
			continue
		}
		if !found || f < e.min {
			e.min = f
			found = true
		}
	}
	if !found {
		return errors.NewMissingValueError("YearRescaler.Fit", e.column, "all values missing, minimum undefined")
	}
	e.SetFitted()
	return nil
}

// Min returns the fitted minimum.
func (e *YearRescaler) Min() (float64, error) {
	if !e.IsFitted() {
		return 0, errors.NewNotFittedError("YearRescaler", "Min")
	}
	return e.min, nil
}

// ColumnNames returns the single output column name.
func (e *YearRescaler) ColumnNames() []string {
	return []string{e.column}
}

// Encode maps one cell to its offset from the fitted minimum.
func (e *YearRescaler) Encode(v dataset.Value) ([]float64, bool, error) {
	if !e.IsFitted() {
		return nil, false, errors.NewNotFittedError("YearRescaler", "Encode")
	}
	if v.IsMissing() {
		return nil, false, nil
	}
	f, ok := v.Float()
	if !ok {
		return nil, false, errors.NewValidationError(e.column, "year column holds a non-numeric value", v)
	}
	return []float64{f - e.min}, true, nil
}

// OneHotEncoder maps a multi-level categorical column to k−1 indicator
// columns. The reference level — the lexicographically first level — is
// dropped so the indicators stay linearly independent of the intercept;
// its effect is absorbed into the intercept coefficient.
//
// Missing cells are handled by policy: with the missing indicator enabled a
// missing cell gets its own "<column>_NA" indicator and the row survives
// listwise deletion; without it the cell stays missing and the row is
// dropped.
type OneHotEncoder struct {
	model.BaseEstimator
	column         string
	includeMissing bool

	levels    []string // sorted; levels[0] is the reference
	index     map[string]int
	naColumn  bool // a missing indicator column was actually emitted
}

// NewOneHotEncoder creates an encoder for one categorical column.
// includeMissing selects the missing-indicator policy.
func NewOneHotEncoder(column string, includeMissing bool) *OneHotEncoder {
	return &OneHotEncoder{column: column, includeMissing: includeMissing}
}

// Fit learns the level set. When fixed is non-empty the schema's level set is
// used as given (order preserved, first level is the reference); otherwise
// the observed levels are collected and sorted.
func (e *OneHotEncoder) Fit(values []dataset.Value, fixed []string) error {
	var levels []string
	if len(fixed) > 0 {
		levels = append([]string(nil), fixed...)
	} else {
		seen := make(map[string]struct{})
		for _, v := range values {
			if level, ok := v.Level(); ok {
				seen[level] = struct{}{}
			}
		}
		for level := range seen {
			levels = append(levels, level)
		}
		sort.Strings(levels)
	}
	if len(levels) < 2 {
		return errors.NewValidationError(e.column, "categorical column needs at least two observed levels", levels)
	}

	e.levels = levels
	e.index = make(map[string]int, len(levels))
	for i, level := range levels {
		e.index[level] = i
	}

	if e.includeMissing {
		for _, v := range values {
			if v.IsMissing() {
				e.naColumn = true
				break
			}
		}
	}

	e.SetFitted()
	return nil
}

// Levels returns the fitted level set; the first entry is the reference.
func (e *OneHotEncoder) Levels() []string {
	return append([]string(nil), e.levels...)
}

// ColumnNames returns the output indicator names: one per non-reference
// level, plus the missing indicator when the policy emitted one.
func (e *OneHotEncoder) ColumnNames() []string {
	var names []string
	for _, level := range e.levels[1:] {
		names = append(names, fmt.Sprintf("%s_%s", e.column, level))
	}
	if e.naColumn {
		names = append(names, fmt.Sprintf("%s_NA", e.column))
	}
	return names
}

// Encode maps one cell to its indicator vector. An unseen level is an
// encoding error, never a silent all-zeros row.
func (e *OneHotEncoder) Encode(v dataset.Value) ([]float64, bool, error) {
	if !e.IsFitted() {
		return nil, false, errors.NewNotFittedError("OneHotEncoder", "Encode")
	}

	width := len(e.levels) - 1
	if e.naColumn {
		width++
	}

	if v.IsMissing() {
		if !e.naColumn {
			return nil, false, nil
		}
		out := make([]float64, width)
		out[width-1] = 1
		return out, true, nil
	}

	level, ok := v.Level()
	if !ok {
		return nil, false, errors.NewValidationError(e.column, "categorical column holds a non-categorical value", v)
	}
	i, ok := e.index[level]
	if !ok {
		return nil, false, errors.NewInvalidEncodingError("OneHotEncoder.Encode", e.column, level)
	}

	out := make([]float64, width)
	if i > 0 {
		out[i-1] = 1
	}
	return out, true, nil
}
