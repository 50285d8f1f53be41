package metrics

import (
	"runtime"
	"sync/atomic"
	"time"
)

// WorkloadBytes is the heap footprint of an int32 workload of length n.
func WorkloadBytes(n int) uint64 {
	if n <= 0 {
		return 0
	}
	return uint64(n) * 4
}

// MemorySample is a runtime memory reading taken next to the workload the
// harness currently holds.
type MemorySample struct {
	HeapAlloc     uint64
	Sys           uint64
	NumGC         uint32
	GCPauseTotal  time.Duration
	WorkloadBytes uint64 // zero between sizes
}

// Overhead is the live heap not accounted for by the workload.
func (s MemorySample) Overhead() uint64 {
	if s.HeapAlloc <= s.WorkloadBytes {
		return 0
	}
	return s.HeapAlloc - s.WorkloadBytes
}

// MemorySampler reads runtime memory statistics for the dashboard. The
// harness reports the live workload length through SetWorkload; Sample may
// run concurrently with it.
type MemorySampler struct {
	workloadLen atomic.Int64
}

// NewMemorySampler returns a sampler with no live workload.
func NewMemorySampler() *MemorySampler {
	return &MemorySampler{}
}

// SetWorkload records the length of the live workload. Zero or a negative
// length means none.
func (s *MemorySampler) SetWorkload(n int) {
	s.workloadLen.Store(int64(max(n, 0)))
}

// Sample reads current memory statistics.
func (s *MemorySampler) Sample() MemorySample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySample{
		HeapAlloc:     m.HeapAlloc,
		Sys:           m.Sys,
		NumGC:         m.NumGC,
		GCPauseTotal:  time.Duration(m.PauseTotalNs),
		WorkloadBytes: WorkloadBytes(int(s.workloadLen.Load())),
	}
}
