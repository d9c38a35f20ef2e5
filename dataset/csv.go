package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/mshiraki/cinefit/pkg/errors"
)

// missingTokens are the cell spellings read as a missing value.
var missingTokens = map[string]struct{}{
	"":   {},
	"NA": {},
	"N/A": {},
}

// LoadCSV reads a comma-separated table whose header row must match the
// schema exactly. Numeric and year columns are parsed as floats; binary,
// categorical and identifier columns are kept as strings. Cells spelled "",
// "NA" or "N/A" become missing values. Any parse failure aborts the load;
// no partial dataset is returned.
func LoadCSV(r io.Reader, schema *Schema) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "cinefit: LoadCSV: reading header")
	}
	if err := schema.ValidateColumns(header); err != nil {
		return nil, err
	}

	specs := make([]ColumnSpec, len(header))
	for i, name := range header {
		spec, _ := schema.Spec(name)
		specs[i] = spec
	}

	var rows []Observation
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cinefit: LoadCSV: line %d", line)
		}

		row := make(Observation, len(header))
		for i, cell := range record {
			row[header[i]] = parseCell(specs[i], cell)
			if v := row[header[i]]; !v.IsMissing() {
				continue
			}
			if _, tokenMissing := missingTokens[strings.TrimSpace(cell)]; !tokenMissing {
				// Missing after parsing but not a missing token: the cell
				// holds something the column's kind cannot read.
				return nil, errors.NewValidationError(header[i],
					"cell cannot be parsed for the column's kind", strings.TrimSpace(cell))
			}
		}
		rows = append(rows, row)
	}

	return New(schema, rows)
}

func parseCell(spec ColumnSpec, cell string) Value {
	cell = strings.TrimSpace(cell)
	if _, ok := missingTokens[cell]; ok {
		return Missing()
	}
	switch spec.Kind {
	case KindNumeric, KindYear:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Missing()
		}
		return Num(f)
	case KindBinary, KindCategorical, KindIdentifier:
		return Str(cell)
	default:
		return Missing()
	}
}
