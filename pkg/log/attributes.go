package log

// Standard attribute keys used across cinefit log records. Using fixed keys
// keeps the preparation and selection logs filterable.
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "preprocessing", "linear", "stats"
	ComponentKey = "component"

	// OperationKey names the operation being performed.
	// Examples: "prepare", "fit", "eliminate", "predict", "ttest"
	OperationKey = "operation"

	// RowsKey is the number of observations involved.
	RowsKey = "data.rows"

	// ColumnsKey is the number of design-matrix columns involved.
	ColumnsKey = "data.columns"

	// ColumnKey names a single column when a record concerns one.
	ColumnKey = "data.column"

	// DroppedRowsKey is the number of rows removed by listwise deletion.
	DroppedRowsKey = "data.dropped_rows"

	// StepKey is the backward-elimination step index, starting at 1.
	StepKey = "selection.step"

	// CriterionKey is the information-criterion value of a fitted model.
	CriterionKey = "model.criterion"

	// RemovedColumnKey names the column removed by an elimination step.
	RemovedColumnKey = "selection.removed_column"
)
