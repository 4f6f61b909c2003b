// Package amesfit is a modeling workbench for housing-price data: it loads
// and cleans a housing table, derives a log-scale target, splits the rows
// into training and test sets (uniformly or stratified on the target),
// fits ordinary least squares models through matrix and formula
// interfaces, engineers features with recipes, and reports tidy model
// summaries with diagnostic plots.
//
// # Quick Start
//
// Fit a formula-based model on the bundled Ames sample:
//
//	package main
//
//	import (
//	    "log"
//	    "os"
//
//	    "github.com/amesfit/amesfit/dataset"
//	    "github.com/amesfit/amesfit/linear"
//	    "github.com/amesfit/amesfit/split"
//	)
//
//	func main() {
//	    tbl, err := dataset.LoadAmes()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    target, _ := tbl.Col(dataset.LogTargetColumn)
//	    sp, err := split.StratifiedSplit(target.Floats, 0.75, 4, 4595)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    train, _ := tbl.Subset(sp.Train)
//
//	    model, err := linear.FitFormula(train, "log_sale_price ~ gr_liv_area + year_built")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Summary(os.Stdout); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - dataset: column-typed tables, CSV loading, name cleaning, the
//     bundled Ames sample
//   - split: train/test, stratified, and v-fold partitioning
//   - formula: R-style model formulas (response ~ terms)
//   - linear: ordinary least squares with inference statistics and tidy
//     summaries
//   - recipe: prep/bake feature-engineering pipelines (log, normalize,
//     dummies, rare-level pooling, splines, interactions, PCA)
//   - workflow: a recipe and a model bundled as one fit/predict unit
//   - metrics: regression error metrics
//   - plots: PNG histograms, scatter, and predicted-vs-actual charts
package amesfit
