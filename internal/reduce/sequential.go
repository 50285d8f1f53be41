package reduce

import "golang.org/x/exp/constraints"

// SequentialSum adds the elements of s left to right into an int64
// accumulator. It is the oracle every other strategy must match exactly.
func SequentialSum[E constraints.Integer](s []E) int64 {
	var total int64
	for _, v := range s {
		total += int64(v)
	}
	return total
}
