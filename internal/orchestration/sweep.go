package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/workload"
)

// SweepPoint is the measurement for one worker count.
type SweepPoint struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// SweepReport is the result of a worker-count sweep.
type SweepReport struct {
	Strategy string
	Size     int
	Points   []SweepPoint
	// BestWorkers is the worker count with the shortest duration, or zero if
	// every point failed.
	BestWorkers int
	// BestDuration is the duration at BestWorkers.
	BestDuration time.Duration
}

// Speedup returns the single-worker duration divided by p's duration.
func (s SweepReport) Speedup(p SweepPoint) float64 {
	if p.Err != nil || p.Duration <= 0 {
		return 0
	}
	for _, base := range s.Points {
		if base.Workers == 1 && base.Err == nil {
			return float64(base.Duration) / float64(p.Duration)
		}
	}
	return 0
}

// SweepWorkerCounts returns 1, 2, 4, ... up to limit, with limit appended
// when it is not a power of two.
func SweepWorkerCounts(limit int) []int {
	if limit < 1 {
		limit = 1
	}
	var counts []int
	for w := 1; w <= limit; w *= 2 {
		counts = append(counts, w)
	}
	if counts[len(counts)-1] != limit {
		counts = append(counts, limit)
	}
	return counts
}

// RunSweep times r on a single workload of the largest configured size for
// every worker count returned by SweepWorkerCounts(2 * cfg.Workers). Each
// point keeps the fastest of cfg.Repeat runs.
func RunSweep(ctx context.Context, cfg BenchmarkConfig, r reduce.Reducer, gen workload.Generator, observer Observer) (SweepReport, error) {
	if observer == nil {
		observer = NullObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NopLogger{}
	}
	size := 0
	for _, s := range cfg.Sizes {
		size = max(size, s)
	}
	report := SweepReport{Strategy: r.Name(), Size: size}

	observer.OnSizeStart(size, 0, 1)
	data, err := gen.Generate(ctx, size)
	if err != nil {
		return report, fmt.Errorf("generating %d elements: %w", size, err)
	}
	expected := reduce.SequentialSum(data)

	for _, w := range SweepWorkerCounts(2 * max(cfg.Workers, 1)) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pointCfg := cfg
		pointCfg.Workers = w
		res := runStrategy(ctx, pointCfg, r, data, expected, max(cfg.Repeat, 1))
		observer.OnRunComplete(res)

		point := SweepPoint{Workers: w, Duration: res.Duration, Err: res.Err}
		if res.Err == nil && !res.Match {
			point.Err = fmt.Errorf("sum mismatch: got %d, want %d", res.Sum, expected)
		}
		report.Points = append(report.Points, point)
		if point.Err == nil && (report.BestWorkers == 0 || point.Duration < report.BestDuration) {
			report.BestWorkers, report.BestDuration = w, point.Duration
		}
	}
	cfg.Logger.Info("sweep complete",
		logging.String("strategy", report.Strategy),
		logging.Int("size", size),
		logging.Int("best_workers", report.BestWorkers))
	return report, nil
}
