// Package errors provides the error handling and warning system used across
// cinefit. Errors are structured values carrying the offending operation and
// column so that a failed preparation or fit can be reported precisely, with
// stack traces attached via cockroachdb/errors.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("cinefit-warning: %v\n", w)
	}
	// zerolog sink, injected lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the library-wide warning handler. Warnings cover
// conditions that do not abort the pipeline but should not pass unnoticed,
// such as a prediction interval exceeding the physical bounds of the score.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the zerolog sink when one is installed,
// falling back to the plain handler otherwise.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Summary is called on a model
// that has not been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("cinefit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when the dimensions of an input do not match
// what the operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("cinefit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// MissingValueError is returned when a required value is absent: a prediction
// input lacking a column the model needs, or a rescaling attribute whose
// observed values are all missing so its minimum is undefined.
type MissingValueError struct {
	Op     string
	Column string
	Reason string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("cinefit: %s: missing value in column %q: %s", e.Op, e.Column, e.Reason)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *MissingValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "MissingValueError")
}

// NewMissingValueError creates a MissingValueError with a stack trace attached.
func NewMissingValueError(op, column, reason string) error {
	err := &MissingValueError{Op: op, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// RankDeficiencyError is returned when the design matrix does not have full
// column rank. Column names the first column found to be linearly dependent
// on the columns preceding it, so the caller knows what to drop.
type RankDeficiencyError struct {
	Op     string
	Column string
	Rank   int
	Cols   int
}

func (e *RankDeficiencyError) Error() string {
	return fmt.Sprintf("cinefit: %s: design matrix is rank deficient (rank %d < %d columns); column %q is linearly dependent on the preceding columns", e.Op, e.Rank, e.Cols, e.Column)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *RankDeficiencyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Int("rank", e.Rank).
		Int("columns", e.Cols).
		Str("type", "RankDeficiencyError")
}

// NewRankDeficiencyError creates a RankDeficiencyError with a stack trace attached.
func NewRankDeficiencyError(op, column string, rank, cols int) error {
	err := &RankDeficiencyError{Op: op, Column: column, Rank: rank, Cols: cols}
	return errors.WithStack(err)
}

// UnderDeterminedError is returned when a fit is attempted with no more
// observations than parameters.
type UnderDeterminedError struct {
	Op      string
	Rows    int
	Columns int
}

func (e *UnderDeterminedError) Error() string {
	return fmt.Sprintf("cinefit: %s: under-determined system: %d observations for %d parameters", e.Op, e.Rows, e.Columns)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *UnderDeterminedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("rows", e.Rows).
		Int("columns", e.Columns).
		Str("type", "UnderDeterminedError")
}

// NewUnderDeterminedError creates an UnderDeterminedError with a stack trace attached.
func NewUnderDeterminedError(op string, rows, columns int) error {
	err := &UnderDeterminedError{Op: op, Rows: rows, Columns: columns}
	return errors.WithStack(err)
}

// InvalidEncodingError is returned when a categorical value cannot be encoded
// against the training schema, typically an unseen level at prediction time.
type InvalidEncodingError struct {
	Op     string
	Column string
	Level  string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("cinefit: %s: level %q of column %q was not observed during encoding", e.Op, e.Level, e.Column)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *InvalidEncodingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("level", e.Level).
		Str("type", "InvalidEncodingError")
}

// NewInvalidEncodingError creates an InvalidEncodingError with a stack trace attached.
func NewInvalidEncodingError(op, column, level string) error {
	err := &InvalidEncodingError{Op: op, Column: column, Level: level}
	return errors.WithStack(err)
}

// ValidationError is returned when schema or parameter validation fails.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cinefit: validation failed for %q: %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error information to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is unusable, for example an
// empty matrix or a non-positive confidence level.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("cinefit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// BoundsExceededWarning is raised when a prediction interval crosses the
// physical bounds of the target scale. The model itself does not clip; the
// warning is a reporting concern.
type BoundsExceededWarning struct {
	Lower      float64
	Upper      float64
	BoundLower float64
	BoundUpper float64
}

func (w *BoundsExceededWarning) Error() string {
	return fmt.Sprintf("prediction interval [%.2f, %.2f] exceeds the target's physical bounds [%.0f, %.0f]",
		w.Lower, w.Upper, w.BoundLower, w.BoundUpper)
}

// MarshalZerologObject adds structured warning information to a zerolog event.
func (w *BoundsExceededWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("lower", w.Lower).
		Float64("upper", w.Upper).
		Float64("bound_lower", w.BoundLower).
		Float64("bound_upper", w.BoundUpper).
		Str("type", "BoundsExceededWarning")
}

// NewBoundsExceededWarning creates a new BoundsExceededWarning.
func NewBoundsExceededWarning(lower, upper, boundLower, boundUpper float64) *BoundsExceededWarning {
	return &BoundsExceededWarning{Lower: lower, Upper: upper, BoundLower: boundLower, BoundUpper: boundUpper}
}

// ListwiseDeletionWarning is raised when listwise deletion removes a large
// share of the sample, which biases the fitted coefficients.
type ListwiseDeletionWarning struct {
	RowsIn    int
	RowsKept  int
	Fraction  float64
	Threshold float64
}

func (w *ListwiseDeletionWarning) Error() string {
	return fmt.Sprintf("listwise deletion dropped %.1f%% of rows (%d of %d kept), above the %.0f%% reporting threshold",
		w.Fraction*100, w.RowsKept, w.RowsIn, w.Threshold*100)
}

// MarshalZerologObject adds structured warning information to a zerolog event.
func (w *ListwiseDeletionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("rows_in", w.RowsIn).
		Int("rows_kept", w.RowsKept).
		Float64("dropped_fraction", w.Fraction).
		Float64("threshold", w.Threshold).
		Str("type", "ListwiseDeletionWarning")
}

// NewListwiseDeletionWarning creates a new ListwiseDeletionWarning.
func NewListwiseDeletionWarning(rowsIn, rowsKept int, fraction, threshold float64) *ListwiseDeletionWarning {
	return &ListwiseDeletionWarning{RowsIn: rowsIn, RowsKept: rowsKept, Fraction: fraction, Threshold: threshold}
}

// ConstantColumnWarning is raised when a column is excluded before fitting
// because it is constant across all retained rows.
type ConstantColumnWarning struct {
	Column string
	Value  float64
}

func (w *ConstantColumnWarning) Error() string {
	return fmt.Sprintf("column %q is constant (%.6g) across all retained rows and was excluded from the design matrix", w.Column, w.Value)
}

// MarshalZerologObject adds structured warning information to a zerolog event.
func (w *ConstantColumnWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Float64("value", w.Value).
		Str("type", "ConstantColumnWarning")
}

// NewConstantColumnWarning creates a new ConstantColumnWarning.
func NewConstantColumnWarning(column string, value float64) *ConstantColumnWarning {
	return &ConstantColumnWarning{Column: column, Value: value}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be cast to target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Numerical instability
//
// ===========================================================================

// NumericalInstabilityError reports NaN or Inf values produced by a
// computation that should be finite.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("cinefit: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a
// stack trace attached.
func NewNumericalInstabilityError(operation string, values []float64) error {
	err := &NumericalInstabilityError{Operation: operation, Values: values}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a matrix inversion fails.
	ErrSingularMatrix = New("singular matrix")
)
