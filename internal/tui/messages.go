package tui

import (
	"time"

	"github.com/agbru/sumbench/internal/orchestration"
)

// Benchmark events carry the generation of the run that produced them so a
// rerun can discard events from the canceled one.

// SizeStartMsg is sent before a workload is generated.
type SizeStartMsg struct {
	Size, Index, Total int
	Generation         uint64
}

// RunCompleteMsg is sent after each strategy finishes on a size.
type RunCompleteMsg struct {
	Result     orchestration.RunResult
	Generation uint64
}

// SizeDoneMsg carries a finished size report.
type SizeDoneMsg struct {
	Report     orchestration.SizeReport
	Generation uint64
}

// BenchmarkCompleteMsg is sent when the benchmark goroutine returns.
type BenchmarkCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ErrorMsg reports a fatal benchmark error.
type ErrorMsg struct {
	Err        error
	Generation uint64
}

// ContextCancelledMsg is sent when the run's context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	HeapAlloc     uint64
	Sys           uint64
	NumGC         uint32
	WorkloadBytes uint64
	Overhead      uint64
	NumGoroutine  int
}
