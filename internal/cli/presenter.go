package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/ui"
)

// CLIColorProvider exposes the active ui theme to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter renders colorized comparison tables.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ apperrors.ColorProvider       = CLIColorProvider{}
)

// PresentSizeReport prints one table per workload size: strategy, sum,
// time in milliseconds, speedup over the sequential run and status.
// Failed strategies show the failure instead of a number.
func (CLIResultPresenter) PresentSizeReport(report orchestration.SizeReport, out io.Writer) {
	fmt.Fprintf(out, "\n%sArray size: %s%s\n", ui.ColorBold(), format.FormatNumber(int64(report.Size)), ui.ColorReset())
	if report.Err != nil {
		fmt.Fprintf(out, "  %s❌ %v%s\n", ui.ColorRed(), report.Err, ui.ColorReset())
		return
	}

	// Only the last column carries escape codes, so alignment is unaffected.
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", "Strategy", "Sum", "Time", "Speedup", "Status")
	for _, res := range report.Results {
		sum, elapsed, speedup := "-", "-", "-"
		var status string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		case !res.Match:
			sum, elapsed = format.FormatNumber(res.Sum), format.FormatMillis(res.Duration)
			status = fmt.Sprintf("%s❌ Mismatch (expected %s)%s", ui.ColorRed(), format.FormatNumber(report.Expected), ui.ColorReset())
		default:
			sum, elapsed = format.FormatNumber(res.Sum), format.FormatMillis(res.Duration)
			speedup = format.FormatSpeedup(report.Speedup(res))
			status = fmt.Sprintf("%s✅ OK%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", res.Strategy, sum, elapsed, speedup, status)
	}
	tw.Flush()
}

// PresentSweep prints the sweep table and the optimal worker count.
func (CLIResultPresenter) PresentSweep(report orchestration.SweepReport, out io.Writer) {
	fmt.Fprintf(out, "\n--- Worker Sweep: %s on %s elements ---\n", report.Strategy, format.FormatNumber(int64(report.Size)))
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  Workers\t│ Time\t│ Speedup\n")
	fmt.Fprintf(tw, "  %s\n", strings.Repeat("─", 40))
	for _, p := range report.Points {
		elapsed := fmt.Sprintf("%sN/A (%v)%s", ui.ColorRed(), p.Err, ui.ColorReset())
		speedup := "-"
		if p.Err == nil {
			elapsed = format.FormatMillis(p.Duration)
			speedup = format.FormatSpeedup(report.Speedup(p))
		}
		highlight := ""
		if p.Err == nil && p.Workers == report.BestWorkers {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %d\t│ %s\t│ %s%s\n", p.Workers, elapsed, speedup, highlight)
	}
	tw.Flush()
	if report.BestWorkers > 0 {
		fmt.Fprintf(out, "%sOptimal worker count%s: %s%d%s (%s)\n",
			ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), report.BestWorkers, ui.ColorReset(),
			format.FormatMillis(report.BestDuration))
	}
}

// HandleError prints err with colors and returns its exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	return apperrors.HandleBenchmarkError(err, out, CLIColorProvider{})
}

// QuietPresenter prints one tab-separated line per run for scripting:
// "<size> <strategy> <sum> <ms>", or "<size> <strategy> error <message>".
type QuietPresenter struct{}

var _ orchestration.ResultPresenter = QuietPresenter{}

// PresentSizeReport writes the report's lines.
func (QuietPresenter) PresentSizeReport(report orchestration.SizeReport, out io.Writer) {
	if report.Err != nil {
		fmt.Fprintf(out, "%d\t-\terror\t%v\n", report.Size, report.Err)
		return
	}
	for _, res := range report.Results {
		fmt.Fprintln(out, FormatQuietResult(res))
	}
}

// PresentSweep writes "<workers> <ms>" per point, tab-separated.
func (QuietPresenter) PresentSweep(report orchestration.SweepReport, out io.Writer) {
	for _, p := range report.Points {
		if p.Err != nil {
			fmt.Fprintf(out, "%d\terror\t%v\n", p.Workers, p.Err)
			continue
		}
		fmt.Fprintf(out, "%d\t%.2f\n", p.Workers, p.Duration.Seconds()*1000)
	}
}

// HandleError prints err without colors and returns its exit code.
func (QuietPresenter) HandleError(err error, out io.Writer) int {
	return apperrors.HandleBenchmarkError(err, out, nil)
}
