package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/orchestration"
)

// sender is the part of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program sender
}

// SetProgram sets the program reference (thread-safe).
func (r *programRef) SetProgram(p sender) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the program (thread-safe). Messages sent before
// SetProgram are dropped.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIObserver forwards harness events as bubbletea messages.
type TUIObserver struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.Observer = (*TUIObserver)(nil)

func (o *TUIObserver) OnSizeStart(size, index, total int) {
	o.ref.Send(SizeStartMsg{Size: size, Index: index, Total: total, Generation: o.generation})
}

func (o *TUIObserver) OnRunComplete(result orchestration.RunResult) {
	o.ref.Send(RunCompleteMsg{Result: result, Generation: o.generation})
}

func (o *TUIObserver) OnSizeDone(report orchestration.SizeReport) {
	o.ref.Send(SizeDoneMsg{Report: report, Generation: o.generation})
}

// TUIResultPresenter implements orchestration.ResultPresenter. Reports reach
// the dashboard through TUIObserver, so only errors are forwarded here.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)

func (t *TUIResultPresenter) PresentSizeReport(orchestration.SizeReport, io.Writer) {}

func (t *TUIResultPresenter) PresentSweep(orchestration.SweepReport, io.Writer) {}

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err, Generation: t.generation})
	return apperrors.ExitCodeFor(err)
}
