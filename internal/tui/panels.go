package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/sysinfo"
)

// ResultsModel accumulates finished size reports and the runs of the size
// in progress.
type ResultsModel struct {
	reports     []orchestration.SizeReport
	currentSize int
	sizeIndex   int
	sizeTotal   int
	current     []orchestration.RunResult
	tracker     *orchestration.ProgressTracker
	offset      int
	width       int
	height      int
}

// NewResultsModel plans totalRuns strategy runs for the progress bar.
func NewResultsModel(totalRuns int) ResultsModel {
	return ResultsModel{tracker: orchestration.NewProgressTracker(totalRuns), currentSize: -1}
}

// SetSize updates the panel dimensions.
func (r *ResultsModel) SetSize(w, h int) {
	r.width, r.height = w, h
}

func (r *ResultsModel) startSize(msg SizeStartMsg) {
	r.currentSize, r.sizeIndex, r.sizeTotal = msg.Size, msg.Index, msg.Total
	r.current = nil
}

func (r *ResultsModel) addRun(res orchestration.RunResult) {
	r.current = append(r.current, res)
	if r.tracker != nil {
		r.tracker.Complete()
	}
}

func (r *ResultsModel) finishSize(report orchestration.SizeReport) {
	r.reports = append(r.reports, report)
	r.current = nil
	r.currentSize = -1
}

func (r *ResultsModel) scroll(delta int) {
	r.offset = max(r.offset+delta, 0)
}

// lines renders the panel content without the border.
func (r ResultsModel) lines() []string {
	var out []string
	for _, rep := range r.reports {
		out = append(out, titleStyle.Render("Array size: "+format.FormatNumber(int64(rep.Size))))
		if rep.Err != nil {
			out = append(out, errorStyle.Render("  ✗ "+rep.Err.Error()))
			continue
		}
		for _, res := range rep.Results {
			out = append(out, resultLine(res, rep.Speedup(res), rep.Expected))
		}
	}
	if r.currentSize >= 0 {
		out = append(out, titleStyle.Render(fmt.Sprintf("Array size: %s (%d/%d)",
			format.FormatNumber(int64(r.currentSize)), r.sizeIndex+1, r.sizeTotal)))
		for _, res := range r.current {
			out = append(out, resultLine(res, 0, 0))
		}
		out = append(out, dimStyle.Render("  running..."))
	}
	if len(out) == 0 {
		out = append(out, dimStyle.Render("Waiting for the first workload..."))
	}
	return out
}

func resultLine(res orchestration.RunResult, speedup float64, expected int64) string {
	name := strategyStyle.Render(fmt.Sprintf("  %-22s", res.Strategy))
	switch {
	case res.Err != nil:
		return name + errorStyle.Render(" ✗ "+res.Err.Error())
	case !res.Match:
		msg := fmt.Sprintf(" ✗ %s mismatch", format.FormatNumber(res.Sum))
		if expected != 0 {
			msg += " (expected " + format.FormatNumber(expected) + ")"
		}
		return name + errorStyle.Render(msg)
	}
	line := name + fmt.Sprintf(" %16s %12s", format.FormatNumber(res.Sum), format.FormatMillis(res.Duration))
	if speedup > 0 {
		line += accentStyle.Render(" " + format.FormatSpeedup(speedup))
	}
	return line + successStyle.Render(" ✓")
}

// View renders the results panel.
func (r ResultsModel) View() string {
	lines := r.lines()
	inner := max(r.height-3, 1) // border + progress line
	offset := min(r.offset, max(len(lines)-inner, 0))
	end := min(offset+inner, len(lines))

	var b strings.Builder
	b.WriteString(strings.Join(lines[offset:end], "\n"))
	if r.tracker != nil {
		fraction := r.tracker.Fraction()
		b.WriteString("\n" + accentStyle.Render(progressBar(fraction, max(r.width-24, 10))) +
			fmt.Sprintf(" %3.0f%% ETA %s", fraction*100, format.FormatExecutionDuration(r.tracker.ETA())))
	}
	return panelStyle.Width(max(r.width-2, 0)).Height(max(r.height-2, 0)).Render(b.String())
}

func progressBar(fraction float64, width int) string {
	filled := int(min(max(fraction, 0), 1) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// SystemModel shows the host description and live resource usage.
type SystemModel struct {
	info   sysinfo.Info
	cpu    *RingBuffer
	mem    *RingBuffer
	stats  MemStatsMsg
	width  int
	height int
}

// sparklineSamples is the history length of the CPU and memory sparklines.
const sparklineSamples = 40

// NewSystemModel creates the panel for info.
func NewSystemModel(info sysinfo.Info) SystemModel {
	return SystemModel{info: info, cpu: NewRingBuffer(sparklineSamples), mem: NewRingBuffer(sparklineSamples)}
}

// SetSize updates the panel dimensions.
func (s *SystemModel) SetSize(w, h int) {
	s.width, s.height = w, h
}

// UpdateSysStats appends a system-wide sample.
func (s *SystemModel) UpdateSysStats(msg SysStatsMsg) {
	s.cpu.Push(msg.CPUPercent)
	s.mem.Push(msg.MemPercent)
}

// UpdateMemStats records a runtime sample.
func (s *SystemModel) UpdateMemStats(msg MemStatsMsg) {
	s.stats = msg
}

// Reset clears the sample history.
func (s *SystemModel) Reset() {
	s.cpu.Reset()
	s.mem.Reset()
	s.stats = MemStatsMsg{}
}

// View renders the system panel.
func (s SystemModel) View() string {
	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-11s", label)) + valueStyle.Render(value)
	}
	lines := []string{
		row("Host", s.info.Hostname),
		row("OS", s.info.OS+"/"+s.info.Arch),
		row("CPU", s.info.CPUModel),
		row("Cores", fmt.Sprintf("%d", s.info.LogicalCPUs)),
		row("Memory", fmt.Sprintf("%.1f GB", s.info.TotalMemoryGB)),
		row("Go", s.info.GoVersion),
		"",
		row("CPU", fmt.Sprintf("%5.1f%% ", s.cpu.Last())) + cpuSparklineStyle.Render(RenderSparkline(s.cpu.Slice())),
		row("MEM", fmt.Sprintf("%5.1f%% ", s.mem.Last())) + memSparklineStyle.Render(RenderSparkline(s.mem.Slice())),
		row("Heap", format.FormatBytes(s.stats.HeapAlloc)),
		row("Workload", format.FormatBytes(s.stats.WorkloadBytes)),
		row("Overhead", format.FormatBytes(s.stats.Overhead)),
		row("GC cycles", fmt.Sprintf("%d", s.stats.NumGC)),
		row("Goroutines", fmt.Sprintf("%d", s.stats.NumGoroutine)),
	}
	return panelStyle.Width(max(s.width-2, 0)).Height(max(s.height-2, 0)).Render(strings.Join(lines, "\n"))
}

// FooterModel renders key help and the run status.
type FooterModel struct {
	keymap KeyMap
	done   bool
	failed bool
	width  int
}

// View renders the footer.
func (f FooterModel) View() string {
	var parts []string
	for _, b := range f.keymap.ShortHelp() {
		parts = append(parts, footerKeyStyle.Render(b.Help().Key)+" "+dimStyle.Render(b.Help().Desc))
	}
	status := statusRunningStyle.Render("RUNNING")
	switch {
	case f.failed:
		status = statusErrorStyle.Render("FAILED")
	case f.done:
		status = statusDoneStyle.Render("DONE")
	}
	left := strings.Join(parts, "  ")
	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(status)-2, 1)
	return " " + left + strings.Repeat(" ", gap) + status
}
