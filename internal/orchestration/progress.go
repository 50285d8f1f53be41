package orchestration

import "time"

// ProgressTracker counts completed strategy runs against the planned total
// and estimates the remaining time from the average run so far. It is not
// safe for concurrent use.
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
}

// NewProgressTracker plans total runs. Returns nil if total <= 0.
func NewProgressTracker(total int) *ProgressTracker {
	if total <= 0 {
		return nil
	}
	return &ProgressTracker{total: total, startTime: time.Now()}
}

// PlannedRuns is the number of OnRunComplete events a benchmark emits.
func PlannedRuns(sizes, strategies int) int {
	return sizes * strategies
}

// Complete records one finished run and returns the progress fraction.
func (p *ProgressTracker) Complete() float64 {
	if p.completed < p.total {
		p.completed++
	}
	return p.Fraction()
}

// Fraction returns completed/total in [0, 1].
func (p *ProgressTracker) Fraction() float64 {
	return float64(p.completed) / float64(p.total)
}

// Completed returns the number of finished runs.
func (p *ProgressTracker) Completed() int { return p.completed }

// Total returns the planned number of runs.
func (p *ProgressTracker) Total() int { return p.total }

// ETA extrapolates the mean elapsed time per completed run. It returns zero
// until the first run completes and after the last.
func (p *ProgressTracker) ETA() time.Duration {
	if p.completed == 0 || p.completed >= p.total {
		return 0
	}
	perRun := time.Since(p.startTime) / time.Duration(p.completed)
	return perRun * time.Duration(p.total-p.completed)
}
