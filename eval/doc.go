// Package eval runs offline evaluations: a pipeline is executed once per
// dataset record on a bounded worker pool, named evaluators score each
// output, and scores are aggregated per evaluator.
//
// A failing record never aborts the batch; its result carries an error
// marker and is excluded from score denominators. Reports from successive
// runs feed the CI gates CheckThreshold and CheckImprovement.
package eval
