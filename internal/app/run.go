package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/sumbench/internal/cli"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/tui"
)

// sweepStrategy is the reducer timed across worker counts in --sweep mode.
const sweepStrategy = "threads"

// runBenchmark runs the strategy comparison with CLI or quiet output.
func (a *Application) runBenchmark(ctx context.Context, out io.Writer, bench orchestration.BenchmarkConfig, reducers []reduce.Reducer) int {
	a.printPreamble(ctx, out, bench, strategyNames(reducers))

	var presenter orchestration.ResultPresenter = cli.CLIResultPresenter{}
	var observer orchestration.Observer = orchestration.NullObserver{}
	var spin *cli.SpinnerObserver
	if a.Config.Quiet {
		presenter = cli.QuietPresenter{}
	} else {
		spin = cli.NewSpinnerObserver(out, orchestration.PlannedRuns(len(bench.Sizes), len(reducers)))
		defer spin.Stop()
		observer = spin
	}

	reports := orchestration.RunBenchmark(ctx, bench, reducers, a.Generator, observer)
	if spin != nil {
		spin.Stop()
	}
	if len(reports) == 0 && ctx.Err() != nil {
		return presenter.HandleError(ctx.Err(), out)
	}
	return orchestration.AnalyzeReports(reports, presenter, out)
}

// runSweep times the threads strategy over a range of worker counts.
func (a *Application) runSweep(ctx context.Context, out io.Writer, bench orchestration.BenchmarkConfig) int {
	r, err := a.Factory.Get(sweepStrategy)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	a.printPreamble(ctx, out, bench, []string{r.Name()})

	var presenter orchestration.ResultPresenter = cli.CLIResultPresenter{}
	var observer orchestration.Observer = orchestration.NullObserver{}
	var spin *cli.SpinnerObserver
	if a.Config.Quiet {
		presenter = cli.QuietPresenter{}
	} else {
		spin = cli.NewSpinnerObserver(out, len(orchestration.SweepWorkerCounts(2*max(bench.Workers, 1))))
		defer spin.Stop()
		observer = spin
	}

	report, err := orchestration.RunSweep(ctx, bench, r, a.Generator, observer)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return presenter.HandleError(err, out)
	}
	presenter.PresentSweep(report, out)

	for _, p := range report.Points {
		if p.Err != nil {
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, bench orchestration.BenchmarkConfig, reducers []reduce.Reducer) int {
	return tui.Run(ctx, tui.Options{
		Config:    bench,
		Reducers:  reducers,
		Generator: a.Generator,
		Info:      a.systemInfo(ctx, bench.Logger),
		Version:   Version,
	})
}

// printPreamble writes the system banner and the execution summary unless
// quiet mode is on.
func (a *Application) printPreamble(ctx context.Context, out io.Writer, bench orchestration.BenchmarkConfig, strategies []string) {
	if a.Config.Quiet {
		return
	}
	if !a.Config.NoSysInfo {
		cli.DisplaySystemInfo(a.systemInfo(ctx, bench.Logger), out)
	}
	cli.DisplayExecutionConfig(cli.ExecutionConfig{
		Sizes:      bench.Sizes,
		Strategies: strategies,
		Workers:    bench.Workers,
		Repeat:     bench.Repeat,
		Seed:       a.seed(),
		MinValue:   a.Config.MinValue,
		MaxValue:   a.Config.MaxValue,
		Timeout:    a.Config.Timeout,
		GCMode:     a.Config.GCMode,
	}, out)
}

func strategyNames(reducers []reduce.Reducer) []string {
	names := make([]string, len(reducers))
	for i, r := range reducers {
		names[i] = r.Name()
	}
	return names
}
