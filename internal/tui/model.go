// Package tui implements the interactive benchmark dashboard on bubbletea.
package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/metrics"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/sysinfo"
	"github.com/agbru/sumbench/internal/workload"
)

// Options is everything the dashboard needs to run a benchmark.
type Options struct {
	Config    orchestration.BenchmarkConfig
	Reducers  []reduce.Reducer
	Generator workload.Generator
	Info      sysinfo.Info
	Version   string
}

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the dashboard.
const (
	headerHeight             = 1
	footerHeight             = 1
	minBodyHeight            = 6
	ResultsPanelWidthPercent = 62
	tickInterval             = 500 * time.Millisecond
)

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) resultsWidth() int {
	return l.width * ResultsPanelWidthPercent / 100
}

func (l LayoutManager) systemWidth() int {
	return l.width - l.resultsWidth()
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	results ResultsModel
	system  SystemModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	opts      Options
	ref       *programRef
	sampler   *metrics.MemorySampler
}

// NewModel creates a dashboard model bound to parentCtx.
func NewModel(parentCtx context.Context, opts Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()
	return Model{
		header:  NewHeaderModel(opts.Version),
		results: NewResultsModel(plannedRuns(opts)),
		system:  NewSystemModel(opts.Info),
		footer:  FooterModel{keymap: keymap},
		keymap:  keymap,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		opts:      opts,
		ref:       &programRef{},
		sampler:   metrics.NewMemorySampler(),
	}
}

func plannedRuns(opts Options) int {
	return orchestration.PlannedRuns(len(opts.Config.Sizes), len(opts.Reducers))
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startBenchmarkCmd(m.ref, m.ctx, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPanels()
		return m, nil

	case SizeStartMsg:
		if msg.Generation == m.generation {
			m.results.startSize(msg)
			m.sampler.SetWorkload(msg.Size)
		}
		return m, nil

	case RunCompleteMsg:
		if msg.Generation == m.generation {
			m.results.addRun(msg.Result)
		}
		return m, nil

	case SizeDoneMsg:
		if msg.Generation == m.generation {
			m.results.finishSize(msg.Report)
			m.sampler.SetWorkload(0)
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.footer.failed = true
		}
		return m, nil

	case BenchmarkCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.footer.done = true
		m.footer.failed = m.footer.failed || msg.ExitCode != apperrors.ExitSuccess
		m.header.SetDone()
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.header.SetDone()
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleMemStatsCmd(m.sampler), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.system.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.system.UpdateSysStats(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Reset):
		// The previous run stops at its next check between runs; its late
		// messages carry the old generation and are ignored.
		m.cancel()
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		m.header.Reset()
		m.results = NewResultsModel(plannedRuns(m.opts))
		m.system.Reset()
		m.sampler.SetWorkload(0)
		m.footer.done, m.footer.failed = false, false
		m.done = false
		m.exitCode = apperrors.ExitSuccess
		m.layoutPanels()

		return m, tea.Batch(
			tickCmd(),
			startBenchmarkCmd(m.ref, m.ctx, m.opts, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up):
		m.results.scroll(-1)
	case key.Matches(msg, m.keymap.Down):
		m.results.scroll(1)
	}
	return m, nil
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.width = m.width
	m.results.SetSize(m.resultsWidth(), m.bodyHeight())
	m.system.SetSize(m.systemWidth(), m.bodyHeight())
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.results.View(), m.system.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// ExitCode returns the exit code the session will report.
func (m Model) ExitCode() int { return m.exitCode }

// Run is the public entry point for the TUI mode. It runs the benchmark
// behind the dashboard and returns the exit code.
func Run(ctx context.Context, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startBenchmarkCmd runs the benchmark on the Cmd goroutine. Progress reaches
// the model through the observer.
func startBenchmarkCmd(ref *programRef, ctx context.Context, opts Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		observer := &TUIObserver{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}
		reports := orchestration.RunBenchmark(ctx, opts.Config, opts.Reducers, opts.Generator, observer)
		exitCode := orchestration.AnalyzeReports(reports, presenter, io.Discard)
		return BenchmarkCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd(sampler *metrics.MemorySampler) tea.Cmd {
	return func() tea.Msg {
		snap := sampler.Sample()
		return MemStatsMsg{
			HeapAlloc:     snap.HeapAlloc,
			Sys:           snap.Sys,
			NumGC:         snap.NumGC,
			WorkloadBytes: snap.WorkloadBytes,
			Overhead:      snap.Overhead(),
			NumGoroutine:  runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysinfo.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
