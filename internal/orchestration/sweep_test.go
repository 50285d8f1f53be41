package orchestration

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/agbru/sumbench/internal/reduce"
)

func TestSweepWorkerCounts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		limit int
		want  []int
	}{
		{0, []int{1}},
		{1, []int{1}},
		{8, []int{1, 2, 4, 8}},
		{12, []int{1, 2, 4, 8, 12}},
	}
	for _, tt := range tests {
		if got := SweepWorkerCounts(tt.limit); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SweepWorkerCounts(%d) = %v, want %v", tt.limit, got, tt.want)
		}
	}
}

func TestRunSweep(t *testing.T) {
	t.Parallel()
	cfg := testConfig(100, 1000)
	cfg.Workers = 4
	obs := &recordingObserver{}
	report, err := RunSweep(context.Background(), cfg, reduce.ThreadReducer{}, &fixedGenerator{}, obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Size != 1000 {
		t.Errorf("Size = %d, want the largest size", report.Size)
	}
	var workers []int
	for _, p := range report.Points {
		if p.Err != nil {
			t.Errorf("workers=%d: %v", p.Workers, p.Err)
		}
		workers = append(workers, p.Workers)
	}
	if !reflect.DeepEqual(workers, []int{1, 2, 4, 8}) {
		t.Errorf("workers = %v", workers)
	}
	if report.BestWorkers == 0 {
		t.Error("BestWorkers should be set")
	}
	if len(obs.events) != 5 {
		t.Errorf("events = %v", obs.events)
	}
}

func TestRunSweepCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunSweep(ctx, testConfig(10), reduce.ThreadReducer{}, &fixedGenerator{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSweepReportSpeedup(t *testing.T) {
	t.Parallel()
	s := SweepReport{Points: []SweepPoint{
		{Workers: 1, Duration: 9 * time.Millisecond},
		{Workers: 2, Duration: 3 * time.Millisecond},
	}}
	if got := s.Speedup(s.Points[1]); got != 3 {
		t.Errorf("Speedup = %v, want 3", got)
	}
}

func TestProgressTracker(t *testing.T) {
	t.Parallel()
	if NewProgressTracker(0) != nil {
		t.Error("zero total should return nil")
	}
	p := NewProgressTracker(PlannedRuns(2, 2))
	if p.ETA() != 0 {
		t.Error("ETA should be zero before the first run")
	}
	p.Complete()
	if got := p.Fraction(); got != 0.25 {
		t.Errorf("Fraction = %v, want 0.25", got)
	}
	for i := 0; i < 10; i++ {
		p.Complete()
	}
	if p.Completed() != 4 || p.Fraction() != 1 || p.ETA() != 0 {
		t.Errorf("tracker should saturate: %d/%d", p.Completed(), p.Total())
	}
}
