package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/metrics"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/workload"
)

// RunBenchmark benchmarks every reducer on every size in cfg.Sizes.
//
// Runs execute one after another, never concurrently, so each strategy has
// the machine to itself. Each strategy runs cfg.Repeat times and the fastest
// successful run is kept; the first failing run aborts that strategy for
// that size. The context is checked between runs: once it is done, the
// remaining strategies of the current size are marked with ctx.Err() and no
// further sizes are started. Reductions themselves are not interruptible.
//
// Parameters:
//   - ctx: Context for cancellation and deadlines.
//   - cfg: Sizes, worker count, repeat count and instrumentation.
//   - reducers: Strategies to run, in display order.
//   - gen: Source of workloads.
//   - observer: Receives progress events (use NullObserver for none).
//
// Returns:
//   - []SizeReport: One report per size that was started.
func RunBenchmark(ctx context.Context, cfg BenchmarkConfig, reducers []reduce.Reducer, gen workload.Generator, observer Observer) []SizeReport {
	if observer == nil {
		observer = NullObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger{}
	}
	logger := cfg.Logger
	repeat := max(cfg.Repeat, 1)

	reports := make([]SizeReport, 0, len(cfg.Sizes))
	for i, size := range cfg.Sizes {
		if ctx.Err() != nil {
			break
		}
		observer.OnSizeStart(size, i, len(cfg.Sizes))

		report := SizeReport{Size: size}
		data, err := gen.Generate(ctx, size)
		if err != nil {
			report.Err = fmt.Errorf("generating %d elements: %w", size, err)
			logger.Error("workload generation failed", err, logging.Int("size", size))
			observer.OnSizeDone(report)
			reports = append(reports, report)
			continue
		}
		report.Expected = reduce.SequentialSum(data)
		logger.Debug("workload ready",
			logging.Int("size", size),
			logging.Int64("expected", report.Expected),
			logging.Uint64("bytes", metrics.WorkloadBytes(size)))

		for _, r := range reducers {
			res := runStrategy(ctx, cfg, r, data, report.Expected, repeat)
			report.Results = append(report.Results, res)
			observer.OnRunComplete(res)
			if res.Err != nil && !apperrors.IsContextError(res.Err) {
				logger.Error("strategy failed", res.Err,
					logging.String("strategy", res.Strategy), logging.Int("size", size))
			}
		}

		observer.OnSizeDone(report)
		reports = append(reports, report)
	}
	return reports
}

// runStrategy runs one reducer repeat times on data and keeps the fastest
// successful run.
func runStrategy(ctx context.Context, cfg BenchmarkConfig, r reduce.Reducer, data []int32, expected int64, repeat int) RunResult {
	res := RunResult{Strategy: r.Name(), Size: len(data), Workers: cfg.Workers}
	if res.Strategy == sequentialName {
		res.Workers = 1
	}

	for run := 0; run < repeat; run++ {
		if err := ctx.Err(); err != nil {
			// A partial set of completed runs still yields a valid timing.
			if res.Runs == 0 {
				res.Err = err
			}
			break
		}

		m := measure(ctx, cfg, r, data)
		if m.err != nil {
			res.Err = apperrors.BenchmarkError{Strategy: res.Strategy, Size: len(data), Cause: m.err}
			res.Sum, res.Duration, res.Match = 0, 0, false
			observe(cfg, res.Strategy, len(data), m, metrics.StatusError)
			break
		}

		status := metrics.StatusOK
		if m.sum != expected {
			status = metrics.StatusMismatch
		}
		observe(cfg, res.Strategy, len(data), m, status)

		if res.Runs == 0 || m.duration < res.Duration {
			res.Duration = m.duration
		}
		// A mismatch on any run sticks: Sum keeps the first wrong value even
		// when a faster run agrees with the oracle.
		switch {
		case res.Runs == 0:
			res.Sum, res.Match = m.sum, m.sum == expected
		case res.Match && m.sum != expected:
			res.Sum, res.Match = m.sum, false
		}
		res.Runs++
		cfg.Logger.Debug("run complete",
			logging.String("strategy", res.Strategy),
			logging.Int("size", len(data)),
			logging.Int("run", run+1),
			logging.Duration("duration", m.duration),
			logging.Uint64("gc_cycles", uint64(m.gc.NumGC)))
	}
	return res
}

func observe(cfg BenchmarkConfig, strategy string, size int, m measurement, status string) {
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveRun(strategy, size, m.duration, status)
	}
}

// AnalyzeReports presents every report and derives the exit code.
//
// The exit code is ExitErrorMismatch if any successful run disagrees with the
// oracle, the timeout or cancel code if the context ended the benchmark,
// ExitErrorGeneric if a strategy failed or a workload could not be generated,
// and ExitSuccess otherwise.
//
// Parameters:
//   - reports: The reports returned by RunBenchmark.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeReports(reports []SizeReport, presenter ResultPresenter, out io.Writer) int {
	var mismatch bool
	var ctxErr, firstErr error

	for _, report := range reports {
		presenter.PresentSizeReport(report, out)
		if report.Err != nil {
			if apperrors.IsContextError(report.Err) && ctxErr == nil {
				ctxErr = report.Err
			} else if firstErr == nil {
				firstErr = report.Err
			}
		}
		for _, res := range report.Results {
			switch {
			case res.Err == nil:
				if !res.Match {
					mismatch = true
				}
			case apperrors.IsContextError(res.Err) && !isStrategyFailure(res.Err):
				if ctxErr == nil {
					ctxErr = res.Err
				}
			default:
				if firstErr == nil {
					firstErr = res.Err
				}
			}
		}
	}

	switch {
	case mismatch:
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! A strategy returned a sum that differs from the sequential result.\n")
		return apperrors.ExitErrorMismatch
	case ctxErr != nil:
		return presenter.HandleError(ctxErr, out)
	case firstErr != nil:
		fmt.Fprintf(out, "\nGlobal Status: Failure. At least one strategy could not complete.\n")
		return apperrors.ExitErrorGeneric
	case len(reports) == 0:
		fmt.Fprintf(out, "\nGlobal Status: Nothing was benchmarked.\n")
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. All strategies agree with the sequential sum.\n")
	return apperrors.ExitSuccess
}

// isStrategyFailure reports whether err came from a reducer rather than from
// the benchmark context.
func isStrategyFailure(err error) bool {
	var be apperrors.BenchmarkError
	return errors.As(err, &be)
}
