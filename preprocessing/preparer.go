package preprocessing

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/mshiraki/cinefit/dataset"
	"github.com/mshiraki/cinefit/pkg/errors"
	"github.com/mshiraki/cinefit/pkg/log"
)

// TargetSpec derives the target score as the unweighted mean of two source
// ratings, the first rescaled by a fixed linear factor so both sit on the
// same scale.
type TargetSpec struct {
	First      string  // e.g. a 0–10 critic rating
	FirstScale float64 // factor applied to First, e.g. 10 to map 0–10 onto 0–100
	Second     string  // e.g. a 0–100 audience score
	Name       string  // name of the derived target column
}

// Report summarizes what preparation did to the sample. Listwise deletion
// drops information, so the fraction lost is always reported.
type Report struct {
	RowsIn          int
	RowsKept        int
	DroppedFraction float64
	Columns         []string // final design-matrix columns, intercept first
	ConstantColumns []string // excluded before fitting
}

// cellEncoder is the common shape of the per-column encoders.
type cellEncoder interface {
	ColumnNames() []string
	Encode(dataset.Value) ([]float64, bool, error)
}

// numericEncoder passes a numeric feature through unchanged.
type numericEncoder struct {
	column string
}

func (e numericEncoder) ColumnNames() []string { return []string{e.column} }

func (e numericEncoder) Encode(v dataset.Value) ([]float64, bool, error) {
	if v.IsMissing() {
		return nil, false, nil
	}
	f, ok := v.Float()
	if !ok {
		return nil, false, errors.NewValidationError(e.column, "numeric column holds a non-numeric value", v)
	}
	return []float64{f}, true, nil
}

// Preparer is the data-preparation stage: it encodes features, derives the
// target, applies listwise deletion, and excludes constant columns. After
// Prepare it also encodes single prediction inputs against the same schema.
type Preparer struct {
	target           TargetSpec
	missingIndicator bool
	warnThreshold    float64
	logger           *slog.Logger

	prepared bool
	order    []string // feature columns in schema order
	encoders map[string]cellEncoder
}

// PreparerOption configures a Preparer.
type PreparerOption func(*Preparer)

// WithMissingIndicator enables the missing-level indicator policy for
// categorical columns: missing cells get a "<column>_NA" indicator instead of
// dooming the row to listwise deletion.
func WithMissingIndicator(enabled bool) PreparerOption {
	return func(p *Preparer) {
		p.missingIndicator = enabled
	}
}

// WithDeletionWarnThreshold sets the dropped-row fraction above which a
// ListwiseDeletionWarning is raised. Default 0.2.
func WithDeletionWarnThreshold(threshold float64) PreparerOption {
	return func(p *Preparer) {
		p.warnThreshold = threshold
	}
}

// WithLogger sets the logger used for preparation records.
func WithLogger(logger *slog.Logger) PreparerOption {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// NewPreparer creates a preparation stage for the given target derivation.
func NewPreparer(target TargetSpec, opts ...PreparerOption) (*Preparer, error) {
	if target.First == "" || target.Second == "" {
		return nil, errors.NewValueError("NewPreparer", "target spec must name two source columns")
	}
	if target.FirstScale == 0 {
		return nil, errors.NewValidationError("TargetSpec.FirstScale", "scale factor must be non-zero", target.FirstScale)
	}
	if target.Name == "" {
		target.Name = "score"
	}
	p := &Preparer{
		target:        target,
		warnThreshold: 0.2,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Prepare encodes the dataset into a design matrix and target vector.
// The source dataset is never mutated; any error aborts before a partial
// result can be used.
func (p *Preparer) Prepare(d *dataset.Dataset) (*dataset.DesignMatrix, *mat.VecDense, *Report, error) {
	schema := d.Schema()

	for _, name := range []string{p.target.First, p.target.Second} {
		spec, ok := schema.Spec(name)
		if !ok {
			return nil, nil, nil, errors.NewValidationError(name, "target source column not in schema", name)
		}
		if spec.Role != dataset.RoleTarget {
			return nil, nil, nil, errors.NewValidationError(name, "target source column must have the target role", spec.Role.String())
		}
	}

	if err := p.fitEncoders(d); err != nil {
		return nil, nil, nil, err
	}

	// Encode row by row; a row with any missing encoded cell, or a missing
	// target source, is dropped (listwise deletion).
	var (
		kept    [][]float64
		targets []float64
	)
	for i := 0; i < d.Len(); i++ {
		row := d.Row(i)

		y, ok := p.targetValue(row)
		if !ok {
			continue
		}

		encoded, ok, err := p.encodeFeatures(row)
		if err != nil {
			return nil, nil, nil, err
		}
		if !ok {
			continue
		}

		kept = append(kept, encoded)
		targets = append(targets, y)
	}

	if len(kept) == 0 {
		return nil, nil, nil, errors.NewValueError("Preparer.Prepare", "listwise deletion removed every row")
	}

	names := p.columnNames()
	width := len(names)
	data := mat.NewDense(len(kept), width+1, nil)
	for i, row := range kept {
		data.Set(i, 0, 1) // intercept
		for j, v := range row {
			data.Set(i, j+1, v)
		}
	}
	cols := append([]string{dataset.InterceptColumn}, names...)

	cols, data, constant := dropConstantColumns(cols, data)

	dm, err := dataset.NewDesignMatrix(cols, data)
	if err != nil {
		return nil, nil, nil, err
	}

	report := &Report{
		RowsIn:          d.Len(),
		RowsKept:        len(kept),
		DroppedFraction: 1 - float64(len(kept))/float64(d.Len()),
		Columns:         dm.Columns(),
		ConstantColumns: constant,
	}

	if report.DroppedFraction > p.warnThreshold {
		errors.Warn(errors.NewListwiseDeletionWarning(report.RowsIn, report.RowsKept, report.DroppedFraction, p.warnThreshold))
	}

	p.logger.Info("dataset prepared",
		log.ComponentKey, "preprocessing",
		log.OperationKey, "prepare",
		log.RowsKey, report.RowsKept,
		log.ColumnsKey, len(report.Columns),
		log.DroppedRowsKey, report.RowsIn-report.RowsKept,
	)

	return dm, mat.NewVecDense(len(targets), targets), report, nil
}

// EncodeRow encodes a single observation against the schema fitted by
// Prepare, for prediction. Every feature must be present: a missing value
// fails rather than being imputed, and an unseen level is an encoding error.
func (p *Preparer) EncodeRow(row dataset.Observation) (map[string]float64, error) {
	if !p.prepared {
		return nil, errors.NewNotFittedError("Preparer", "EncodeRow")
	}

	out := make(map[string]float64)
	for _, column := range p.order {
		enc := p.encoders[column]
		v, ok := row[column]
		if !ok {
			return nil, errors.NewMissingValueError("Preparer.EncodeRow", column, "column absent from prediction input")
		}
		values, present, err := enc.Encode(v)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, errors.NewMissingValueError("Preparer.EncodeRow", column, "prediction input has no value and imputation is not performed")
		}
		for k, name := range enc.ColumnNames() {
			out[name] = values[k]
		}
	}
	return out, nil
}

func (p *Preparer) fitEncoders(d *dataset.Dataset) error {
	schema := d.Schema()
	p.order = nil
	p.encoders = make(map[string]cellEncoder)

	for _, spec := range schema.Features() {
		values, err := d.Column(spec.Name)
		if err != nil {
			return err
		}

		var enc cellEncoder
		switch spec.Kind {
		case dataset.KindNumeric:
			enc = numericEncoder{column: spec.Name}
		case dataset.KindYear:
			r := NewYearRescaler(spec.Name)
			if err := r.Fit(values); err != nil {
				return err
			}
			enc = r
		case dataset.KindBinary:
			enc = NewBinaryEncoder(spec.Name, [2]string{spec.Levels[0], spec.Levels[1]})
		case dataset.KindCategorical:
			oh := NewOneHotEncoder(spec.Name, p.missingIndicator)
			if err := oh.Fit(values, spec.Levels); err != nil {
				return err
			}
			enc = oh
		case dataset.KindIdentifier:
			// Schema validation rejects identifier features; nothing to encode.
			return errors.NewValidationError(spec.Name, "identifier column cannot be a feature", spec.Kind.String())
		default:
			return errors.NewValidationError(spec.Name, "unknown column kind", int(spec.Kind))
		}

		p.order = append(p.order, spec.Name)
		p.encoders[spec.Name] = enc
	}

	p.prepared = true
	return nil
}

func (p *Preparer) columnNames() []string {
	var names []string
	for _, column := range p.order {
		names = append(names, p.encoders[column].ColumnNames()...)
	}
	return names
}

func (p *Preparer) targetValue(row dataset.Observation) (float64, bool) {
	a, okA := row[p.target.First].Float()
	b, okB := row[p.target.Second].Float()
	if !okA || !okB {
		return 0, false
	}
	return (a*p.target.FirstScale + b) / 2, true
}

func (p *Preparer) encodeFeatures(row dataset.Observation) ([]float64, bool, error) {
	var out []float64
	for _, column := range p.order {
		values, present, err := p.encoders[column].Encode(row[column])
		if err != nil {
			return nil, false, err
		}
		if !present {
			return nil, false, nil
		}
		out = append(out, values...)
	}
	return out, true, nil
}

// dropConstantColumns removes non-intercept columns that hold a single value
// across all rows. Such columns are indistinguishable from the intercept and
// would make the design rank deficient.
func dropConstantColumns(cols []string, data *mat.Dense) ([]string, *mat.Dense, []string) {
	r, c := data.Dims()

	keep := []int{0}
	var constant []string
	for j := 1; j < c; j++ {
		first := data.At(0, j)
		isConst := true
		for i := 1; i < r; i++ {
			if data.At(i, j) != first {
				isConst = false
				break
			}
		}
		if isConst {
			constant = append(constant, cols[j])
			errors.Warn(errors.NewConstantColumnWarning(cols[j], first))
			continue
		}
		keep = append(keep, j)
	}

	if len(keep) == c {
		return cols, data, nil
	}

	out := mat.NewDense(r, len(keep), nil)
	outCols := make([]string, len(keep))
	for k, j := range keep {
		outCols[k] = cols[j]
		for i := 0; i < r; i++ {
			out.Set(i, k, data.At(i, j))
		}
	}
	return outCols, out, constant
}
