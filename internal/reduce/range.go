package reduce

import "fmt"

// Range is a half-open index interval [Start, End) over a workload.
type Range struct {
	Start int
	End   int
}

// Len returns the number of elements covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range covers no element.
func (r Range) Empty() bool { return r.End == r.Start }

// String renders the range as "[start,end)".
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Partition splits [0, n) into exactly w contiguous, gapless, non-overlapping
// ranges. Every range except the last has n/w elements; the last one absorbs
// the n%w remainder. When w > n the leading ranges are empty.
//
// The partition for a given (n, w) is always identical.
func Partition(n, w int) ([]Range, error) {
	if w < 1 {
		return nil, InvalidWorkerCountError{Count: w}
	}
	if n < 0 {
		return nil, fmt.Errorf("partition: negative length %d", n)
	}

	chunk := n / w
	ranges := make([]Range, w)
	for i := 0; i < w; i++ {
		start := i * chunk
		end := start + chunk
		if i == w-1 {
			end = n
		}
		ranges[i] = Range{Start: start, End: end}
	}
	return ranges, nil
}
