package reduce

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func sequence(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = int32(i + 1)
	}
	return s
}

func ones(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func TestParallelSumScenario(t *testing.T) {
	t.Parallel()
	workload := []int32{1, 2, 3, 4, 5, 6, 7}

	ranges, err := Partition(len(workload), 3)
	if err != nil {
		t.Fatal(err)
	}
	wantPartials := []int64{3, 7, 18}
	for i, r := range ranges {
		if got := sumRange(workload, r); got != wantPartials[i] {
			t.Errorf("partial %d over %s = %d, want %d", i, r, got, wantPartials[i])
		}
	}

	got, err := ParallelSum(workload, 3)
	if err != nil {
		t.Fatalf("ParallelSum error: %v", err)
	}
	if got != 28 {
		t.Errorf("ParallelSum = %d, want 28", got)
	}
	if seq := SequentialSum(workload); seq != 28 {
		t.Errorf("SequentialSum = %d, want 28", seq)
	}
}

func TestParallelSumAllOnes(t *testing.T) {
	t.Parallel()
	got, err := ParallelSum(ones(100), 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("ParallelSum(100 ones, 4) = %d, want 100", got)
	}
}

func TestParallelSumMatchesSequential(t *testing.T) {
	t.Parallel()
	workloads := map[string][]int32{
		"empty":     {},
		"single":    {42},
		"sequence":  sequence(1001),
		"negatives": {-5, 3, -1, 8, -100, 0, 7},
		"ones":      ones(4096),
	}

	for name, workload := range workloads {
		workload := workload
		want := SequentialSum(workload)
		counts := []int{1, 2, runtime.NumCPU(), len(workload) + 5}
		if len(workload) > 0 {
			counts = append(counts, len(workload))
		}
		for _, w := range counts {
			got, err := ParallelSum(workload, w)
			if err != nil {
				t.Fatalf("%s: ParallelSum(w=%d) error: %v", name, w, err)
			}
			if got != want {
				t.Errorf("%s: ParallelSum(w=%d) = %d, want %d", name, w, got, want)
			}
		}
	}
}

func TestParallelSumEmpty(t *testing.T) {
	t.Parallel()
	if got := SequentialSum([]int32{}); got != 0 {
		t.Errorf("SequentialSum([]) = %d, want 0", got)
	}
	for _, w := range []int{1, 3, 16} {
		got, err := ParallelSum(nil, w)
		if err != nil || got != 0 {
			t.Errorf("ParallelSum([], %d) = %d, %v; want 0, nil", w, got, err)
		}
	}
}

func TestParallelSumDeterministic(t *testing.T) {
	t.Parallel()
	workload := sequence(100_003)
	first, err := ParallelSum(workload, 7)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		got, err := ParallelSum(workload, 7)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("run %d: got %d, first run %d", i, got, first)
		}
	}
}

func TestParallelSumInvalidWorkerCount(t *testing.T) {
	t.Parallel()
	total, err := ParallelSum(sequence(10), 0)
	if !errors.Is(err, ErrInvalidWorkerCount) {
		t.Fatalf("error = %v, want ErrInvalidWorkerCount", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 on error", total)
	}
}

// TestReduceRangesWorkerFailure feeds a corrupted partition so that one
// worker indexes past the end of the workload.
func TestReduceRangesWorkerFailure(t *testing.T) {
	t.Parallel()
	workload := sequence(10)
	ranges := []Range{{0, 5}, {5, 10}, {10, 15}}

	total, err := reduceRanges(workload, ranges)
	if total != 0 {
		t.Errorf("total = %d, want 0 when a worker fails", total)
	}
	if !errors.Is(err, ErrWorkerFailure) {
		t.Fatalf("error = %v, want ErrWorkerFailure", err)
	}

	var wf *WorkerFailureError
	if !errors.As(err, &wf) {
		t.Fatalf("error %T is not *WorkerFailureError", err)
	}
	if wf.Worker != 2 {
		t.Errorf("failed worker = %d, want 2", wf.Worker)
	}
	if wf.Range != (Range{10, 15}) {
		t.Errorf("failed range = %v, want [10,15)", wf.Range)
	}
	if !strings.Contains(err.Error(), "worker 2") {
		t.Errorf("error message should name the worker: %q", err.Error())
	}
}

func TestReduceRangesReportsLowestFailedWorker(t *testing.T) {
	t.Parallel()
	workload := sequence(4)
	ranges := []Range{{0, 2}, {3, 9}, {2, 4}, {5, 20}}

	_, err := reduceRanges(workload, ranges)
	var wf *WorkerFailureError
	if !errors.As(err, &wf) {
		t.Fatalf("expected *WorkerFailureError, got %v", err)
	}
	if wf.Worker != 1 {
		t.Errorf("reported worker = %d, want 1", wf.Worker)
	}
}

func TestNewWorkerFailureNonErrorPanic(t *testing.T) {
	t.Parallel()
	wf := newWorkerFailure(3, Range{1, 2}, "boom")
	if wf.Cause == nil || wf.Cause.Error() != "boom" {
		t.Errorf("cause = %v, want boom", wf.Cause)
	}
	if errors.Unwrap(wf) != wf.Cause {
		t.Error("Unwrap should return the cause")
	}
}

func BenchmarkSum(b *testing.B) {
	workload := ones(1_000_000)
	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = SequentialSum(workload)
		}
	})
	b.Run("goroutines", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ParallelSum(workload, runtime.NumCPU())
		}
	})
	b.Run("pargo", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = pargoSum(workload, runtime.NumCPU())
		}
	})
}
