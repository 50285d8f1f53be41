package reduce

import (
	"github.com/exascience/pargo/parallel"
)

// pargoSum delegates the reduction to pargo's recursive range splitter. Its
// batching is opaque: batches is only an upper bound on the number of leaves.
// pargo re-raises worker panics on the calling goroutine; they are turned
// into a WorkerFailureError here so the caller sees the same failure shape as
// ParallelSum.
func pargoSum(workload []int32, batches int) (total int64, err error) {
	if batches < 1 {
		return 0, InvalidWorkerCountError{Count: batches}
	}

	defer func() {
		if p := recover(); p != nil {
			total = 0
			err = newWorkerFailure(-1, Range{Start: 0, End: len(workload)}, p)
		}
	}()

	sum := parallel.RangeReduceIntSum(0, len(workload), batches, func(low, high int) int {
		return int(sumRange(workload, Range{Start: low, End: high}))
	})
	return int64(sum), nil
}
