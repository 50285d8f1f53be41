package metrics

import (
	"sync"
	"testing"
)

var sink []int32

func TestMemorySampler_Sample(t *testing.T) {
	t.Parallel()

	snap := NewMemorySampler().Sample()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.WorkloadBytes != 0 {
		t.Errorf("WorkloadBytes = %d, want 0 with no live workload", snap.WorkloadBytes)
	}
}

func TestMemorySampler_TracksLiveWorkload(t *testing.T) {
	t.Parallel()

	s := NewMemorySampler()
	sink = make([]int32, 1<<20)
	s.SetWorkload(len(sink))

	snap := s.Sample()
	if snap.WorkloadBytes != 4<<20 {
		t.Errorf("WorkloadBytes = %d, want %d", snap.WorkloadBytes, 4<<20)
	}
	if snap.HeapAlloc < snap.WorkloadBytes {
		t.Errorf("HeapAlloc %d should include the %d-byte workload", snap.HeapAlloc, snap.WorkloadBytes)
	}

	s.SetWorkload(-3)
	if got := s.Sample().WorkloadBytes; got != 0 {
		t.Errorf("negative length: WorkloadBytes = %d, want 0", got)
	}
}

func TestMemorySampler_ConcurrentSetAndSample(t *testing.T) {
	t.Parallel()

	s := NewMemorySampler()
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(2)
		go func() { defer wg.Done(); s.SetWorkload(i * 1000) }()
		go func() { defer wg.Done(); _ = s.Sample() }()
	}
	wg.Wait()
}

func TestMemorySample_Overhead(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		s    MemorySample
		want uint64
	}{
		{"no workload", MemorySample{HeapAlloc: 100}, 100},
		{"workload inside heap", MemorySample{HeapAlloc: 100, WorkloadBytes: 40}, 60},
		{"workload larger than heap", MemorySample{HeapAlloc: 10, WorkloadBytes: 40}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.s.Overhead(); got != tt.want {
				t.Errorf("Overhead() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWorkloadBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    int
		want uint64
	}{
		{10_000_000, 40_000_000},
		{0, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := WorkloadBytes(tt.n); got != tt.want {
			t.Errorf("WorkloadBytes(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
