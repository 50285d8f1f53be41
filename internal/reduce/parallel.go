package reduce

// ParallelSum sums workload with exactly workers goroutines.
//
// Worker i sums the i-th range of Partition(len(workload), workers) into its
// own slot. The coordinator waits on every worker's done channel in turn and
// reads no slot before all of them have been closed, then combines the slots
// in ascending worker order. The goroutines are started fresh for each call.
//
// A panic inside any worker makes the whole reduction fail with a
// *WorkerFailureError; no partial total is returned.
func ParallelSum(workload []int32, workers int) (int64, error) {
	ranges, err := Partition(len(workload), workers)
	if err != nil {
		return 0, err
	}
	return reduceRanges(workload, ranges)
}

// reduceRanges runs one goroutine per range and joins them all.
func reduceRanges(workload []int32, ranges []Range) (int64, error) {
	partials := make([]int64, len(ranges))
	failures := make([]*WorkerFailureError, len(ranges))
	done := make([]chan struct{}, len(ranges))

	for i, r := range ranges {
		done[i] = make(chan struct{})
		go func(i int, r Range) {
			defer close(done[i])
			defer func() {
				if p := recover(); p != nil {
					failures[i] = newWorkerFailure(i, r, p)
				}
			}()
			partials[i] = sumRange(workload, r)
		}(i, r)
	}

	for _, ch := range done {
		<-ch
	}

	for _, f := range failures {
		if f != nil {
			return 0, f
		}
	}

	var total int64
	for _, p := range partials {
		total += p
	}
	return total, nil
}

// sumRange adds workload[r.Start:r.End] left to right.
func sumRange(workload []int32, r Range) int64 {
	var sum int64
	for _, v := range workload[r.Start:r.End] {
		sum += int64(v)
	}
	return sum
}
