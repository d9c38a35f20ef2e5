// Package dataset defines the tabular types shared by the preparation and
// modeling stages: the column schema, the immutable observation table, and
// the dense design matrix consumed by the linear fitters.
package dataset

import (
	"github.com/mshiraki/cinefit/pkg/errors"
)

// Kind is the tagged variant describing how a column's raw values are
// interpreted. Encoding dispatches on Kind with an exhaustive switch; an
// unknown Kind is a schema bug and fails validation up front.
type Kind int

const (
	// KindNumeric is a continuous numeric attribute used as-is.
	KindNumeric Kind = iota
	// KindBinary is a two-level categorical attribute encoded to {0,1}.
	KindBinary
	// KindCategorical is a multi-level attribute that gets one-hot encoded.
	KindCategorical
	// KindYear is a year-valued attribute rescaled so the earliest observed
	// value maps to 0.
	KindYear
	// KindIdentifier is a high-cardinality identifier or free-text column,
	// never usable as a predictor.
	KindIdentifier
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBinary:
		return "binary"
	case KindCategorical:
		return "categorical"
	case KindYear:
		return "year"
	case KindIdentifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// Role assigns each column a place in the modeling pipeline. Exclusion is
// explicit: a column with no role in the schema fails validation instead of
// being silently retained or dropped.
type Role int

const (
	// RoleFeature marks a candidate predictor.
	RoleFeature Role = iota
	// RoleTarget marks a source column of the target score.
	RoleTarget
	// RoleExcluded marks a column deliberately left out, e.g. an alternate
	// measurement of the target that would leak it.
	RoleExcluded
	// RoleIdentifier marks a row-identity column kept for reporting only.
	RoleIdentifier
)

// String returns the name of the role.
func (r Role) String() string {
	switch r {
	case RoleFeature:
		return "feature"
	case RoleTarget:
		return "target"
	case RoleExcluded:
		return "excluded"
	case RoleIdentifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// ColumnSpec describes one column of the raw table.
type ColumnSpec struct {
	Name string
	Kind Kind
	Role Role

	// Levels fixes the level set for Binary and Categorical columns.
	// Binary requires exactly two: Levels[0] encodes to 0, Levels[1] to 1.
	// For Categorical it may be left empty and learned from the data.
	Levels []string
}

// Schema is the validated set of column specifications for one dataset.
// Column order is the order specs were given and is preserved through
// encoding, which keeps downstream tie-breaking deterministic.
type Schema struct {
	specs []ColumnSpec
	index map[string]int
}

// NewSchema validates the specs and builds a schema.
func NewSchema(specs ...ColumnSpec) (*Schema, error) {
	if len(specs) == 0 {
		return nil, errors.NewValueError("NewSchema", "schema must contain at least one column")
	}

	index := make(map[string]int, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, errors.NewValidationError("ColumnSpec.Name", "column name must not be empty", spec.Name)
		}
		if _, dup := index[spec.Name]; dup {
			return nil, errors.NewValidationError("ColumnSpec.Name", "duplicate column name", spec.Name)
		}

		switch spec.Kind {
		case KindNumeric, KindYear:
			if len(spec.Levels) != 0 {
				return nil, errors.NewValidationError(spec.Name, "numeric columns must not declare levels", spec.Levels)
			}
		case KindBinary:
			if len(spec.Levels) != 2 {
				return nil, errors.NewValidationError(spec.Name, "binary columns require exactly two levels", spec.Levels)
			}
			if spec.Levels[0] == spec.Levels[1] {
				return nil, errors.NewValidationError(spec.Name, "binary levels must be distinct", spec.Levels)
			}
		case KindCategorical:
			seen := make(map[string]struct{}, len(spec.Levels))
			for _, l := range spec.Levels {
				if _, dup := seen[l]; dup {
					return nil, errors.NewValidationError(spec.Name, "duplicate categorical level", l)
				}
				seen[l] = struct{}{}
			}
		case KindIdentifier:
			if spec.Role == RoleFeature || spec.Role == RoleTarget {
				return nil, errors.NewValidationError(spec.Name, "identifier columns cannot be features or targets", spec.Role.String())
			}
		default:
			return nil, errors.NewValidationError(spec.Name, "unknown column kind", int(spec.Kind))
		}

		if spec.Role == RoleTarget && spec.Kind != KindNumeric {
			return nil, errors.NewValidationError(spec.Name, "target source columns must be numeric", spec.Kind.String())
		}

		index[spec.Name] = i
	}

	return &Schema{specs: append([]ColumnSpec(nil), specs...), index: index}, nil
}

// MustSchema is NewSchema that panics on error, for literal schemas.
func MustSchema(specs ...ColumnSpec) *Schema {
	s, err := NewSchema(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.specs)
}

// Columns returns the column specs in schema order.
func (s *Schema) Columns() []ColumnSpec {
	return append([]ColumnSpec(nil), s.specs...)
}

// Spec returns the spec for a named column.
func (s *Schema) Spec(name string) (ColumnSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return ColumnSpec{}, false
	}
	return s.specs[i], true
}

// Features returns the specs with RoleFeature, in schema order.
func (s *Schema) Features() []ColumnSpec {
	var out []ColumnSpec
	for _, spec := range s.specs {
		if spec.Role == RoleFeature {
			out = append(out, spec)
		}
	}
	return out
}

// ValidateColumns checks a set of observed column names against the schema.
// Unknown observed columns and schema columns absent from the data both fail;
// there is no silent retention or dropping.
func (s *Schema) ValidateColumns(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := s.index[name]; !ok {
			return errors.NewValidationError(name, "column not declared in schema", name)
		}
		if _, dup := seen[name]; dup {
			return errors.NewValidationError(name, "column appears more than once in the data", name)
		}
		seen[name] = struct{}{}
	}
	for _, spec := range s.specs {
		if _, ok := seen[spec.Name]; !ok {
			return errors.NewValidationError(spec.Name, "schema column missing from the data", spec.Name)
		}
	}
	return nil
}
