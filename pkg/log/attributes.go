package log

// Standard attribute keys for modeling operations. Using these keys
// consistently keeps log filtering uniform across packages.
const (
	// ModelNameKey identifies the estimator or transformer type.
	// Examples: "Regression", "Recipe", "Workflow"
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed.
	// Standard values: "fit", "predict", "prep", "bake", "split"
	OperationKey = "ml.operation"

	// RowsKey is the number of rows in the data being processed.
	RowsKey = "data.rows"

	// ColumnsKey is the number of columns in the data being processed.
	ColumnsKey = "data.columns"

	// TargetKey names the response column of the current model.
	TargetKey = "data.target"

	// SeedKey is the random seed driving a split or resample.
	SeedKey = "split.seed"

	// DurationKey is the elapsed wall time of an operation in milliseconds.
	DurationKey = "perf.duration_ms"
)
