// Package orchestration runs the benchmark: for each workload size it
// generates the data, computes the sequential oracle, times every selected
// strategy and hands the reports to a presenter. Presentation stays behind
// the Observer and ResultPresenter interfaces.
package orchestration
