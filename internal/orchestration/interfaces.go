package orchestration

import (
	"io"
	"time"

	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/memory"
	"github.com/agbru/sumbench/internal/metrics"
)

// BenchmarkConfig holds what the harness needs from the application config.
type BenchmarkConfig struct {
	// Sizes lists the workload lengths, benchmarked in order.
	Sizes []int
	// Workers is passed to every reducer. Must be >= 1.
	Workers int
	// Repeat is the number of runs per strategy and size. Values below one
	// are treated as one.
	Repeat int
	// GCMode controls GC suspension around each timed run.
	GCMode memory.GCMode
	// Metrics receives every run. May be nil.
	Metrics *metrics.Recorder
	// Logger receives debug events. May be nil.
	Logger logging.Logger
}

// RunResult is the outcome of one strategy on one workload size.
type RunResult struct {
	// Strategy is the reducer's display name.
	Strategy string
	// Size is the workload length.
	Size int
	// Workers is the worker count the reducer was given.
	Workers int
	// Sum is the reduced value. Zero when Err is set.
	Sum int64
	// Duration is the fastest successful run.
	Duration time.Duration
	// Runs is the number of completed runs.
	Runs int
	// Match reports whether Sum equals the sequential oracle.
	Match bool
	// Err is set when the strategy failed; the failure aborts only this
	// strategy/size combination.
	Err error
}

// SizeReport groups the results for one workload size.
type SizeReport struct {
	// Size is the workload length.
	Size int
	// Expected is the sequential oracle.
	Expected int64
	// Results holds one entry per strategy, in selection order.
	Results []RunResult
	// Err is set when the workload could not be generated.
	Err error
}

// Baseline returns the duration of the sequential strategy, or zero if it
// was not run or failed.
func (r SizeReport) Baseline() time.Duration {
	for _, res := range r.Results {
		if res.Strategy == sequentialName && res.Err == nil {
			return res.Duration
		}
	}
	return 0
}

// Speedup returns Baseline divided by the result's duration, or zero when
// either is unavailable.
func (r SizeReport) Speedup(res RunResult) float64 {
	base := r.Baseline()
	if base <= 0 || res.Err != nil || res.Duration <= 0 {
		return 0
	}
	return float64(base) / float64(res.Duration)
}

// Observer receives progress events from the harness. All methods are
// called from the harness goroutine, in order.
type Observer interface {
	// OnSizeStart is called before the workload for a size is generated.
	OnSizeStart(size, index, total int)
	// OnRunComplete is called once per strategy and size.
	OnRunComplete(result RunResult)
	// OnSizeDone is called with the finished report for a size.
	OnSizeDone(report SizeReport)
}

// NullObserver ignores all events. Useful for quiet mode or testing.
type NullObserver struct{}

func (NullObserver) OnSizeStart(int, int, int) {}
func (NullObserver) OnRunComplete(RunResult)   {}
func (NullObserver) OnSizeDone(SizeReport)     {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnSizeStart(size, index, total int) {
	for _, o := range m {
		o.OnSizeStart(size, index, total)
	}
}

func (m MultiObserver) OnRunComplete(result RunResult) {
	for _, o := range m {
		o.OnRunComplete(result)
	}
}

func (m MultiObserver) OnSizeDone(report SizeReport) {
	for _, o := range m {
		o.OnSizeDone(report)
	}
}

// ResultPresenter renders reports. Implementations decide the format (CLI
// table, quiet lines, TUI).
type ResultPresenter interface {
	// PresentSizeReport displays the comparison table for one size.
	PresentSizeReport(report SizeReport, out io.Writer)
	// PresentSweep displays a worker-count sweep.
	PresentSweep(report SweepReport, out io.Writer)
	// HandleError prints a fatal error and returns the exit code.
	HandleError(err error, out io.Writer) int
}
