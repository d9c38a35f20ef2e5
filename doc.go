// Package cinefit is a statistical modeling toolkit for movie rating data.
//
// It covers the full path from raw observations to an interval prediction:
// typed datasets with schema validation, categorical and year encoding with
// listwise deletion of incomplete rows, ordinary least squares fitting,
// backward feature elimination under the Akaike information criterion, paired
// hypothesis testing of two rating sources, and diagnostic plots.
//
// # Quick Start
//
// Fitting a model and predicting with an interval:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/mshiraki/cinefit/linear"
//	    "github.com/mshiraki/cinefit/preprocessing"
//	)
//
//	func main() {
//	    prep, err := preprocessing.NewPreparer(schema, target)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    X, y, _, err := prep.Prepare(data)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model, steps, err := linear.Eliminate(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("kept %d of %d columns after %d steps\n",
//	        len(model.Columns()), cols, len(steps))
//
//	    row, err := prep.EncodeRow(observation)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    pred, err := model.Predict(row, 0.95, &linear.ScoreBounds)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%.1f [%.1f, %.1f]\n", pred.Point, pred.Lower, pred.Upper)
//	}
//
// # Packages
//
//   - dataset: schemas, typed observations, CSV loading, design matrices
//   - preprocessing: encoders and the dataset-to-design-matrix preparer
//   - linear: OLS fitting, backward elimination, summaries, prediction intervals
//   - stats: the paired t-test comparing two rating sources
//   - metrics: regression evaluation metrics
//   - report: diagnostic figures rendered with gonum/plot
//
// Errors carry stack traces via cockroachdb/errors; see pkg/errors. Pipeline
// logging uses log/slog through pkg/log, with warnings routed to zerolog.
package cinefit
