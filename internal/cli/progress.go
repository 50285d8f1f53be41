package cli

import (
	"fmt"
	"io"

	"github.com/briandowns/spinner"

	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/orchestration"
)

// SpinnerObserver shows a spinner with a progress bar and ETA while the
// benchmark runs. Call Stop before printing results.
type SpinnerObserver struct {
	out     io.Writer
	spinner Spinner
	tracker *orchestration.ProgressTracker
	size    int
}

var _ orchestration.Observer = (*SpinnerObserver)(nil)

// NewSpinnerObserver plans totalRuns strategy runs, as returned by
// orchestration.PlannedRuns.
func NewSpinnerObserver(out io.Writer, totalRuns int) *SpinnerObserver {
	return &SpinnerObserver{out: out, tracker: orchestration.NewProgressTracker(totalRuns)}
}

// OnSizeStart starts the spinner on first use.
func (o *SpinnerObserver) OnSizeStart(size, index, total int) {
	o.size = size
	if o.spinner == nil {
		o.spinner = newSpinner(spinner.WithWriter(o.out))
		o.spinner.Start()
	}
	o.spinner.UpdateSuffix(fmt.Sprintf(" Size %d/%d: generating %s elements...",
		index+1, total, format.FormatNumber(int64(size))))
}

// OnRunComplete advances the progress bar.
func (o *SpinnerObserver) OnRunComplete(result orchestration.RunResult) {
	if o.spinner == nil || o.tracker == nil {
		return
	}
	fraction := o.tracker.Complete()
	o.spinner.UpdateSuffix(fmt.Sprintf(" %s %3.0f%% ETA %s | %s on %s elements done",
		progressBar(fraction, ProgressBarWidth), fraction*100,
		format.FormatExecutionDuration(o.tracker.ETA()),
		result.Strategy, format.FormatNumber(int64(o.size))))
}

// OnSizeDone is a no-op; the spinner keeps running until Stop.
func (o *SpinnerObserver) OnSizeDone(orchestration.SizeReport) {}

// Stop halts the spinner if it was started.
func (o *SpinnerObserver) Stop() {
	if o.spinner != nil {
		o.spinner.Stop()
		o.spinner = nil
	}
}
