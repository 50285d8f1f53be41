// Package reduce implements the array-sum strategies compared by sumbench:
// a sequential scan used as the correctness oracle, a hand-partitioned
// goroutine reduction, and a data-parallel reduction delegated to pargo.
//
// The hand-partitioned reducer splits [0, N) into W contiguous ranges with
// Partition, gives every worker its own result slot, joins each worker
// individually and combines the slots in ascending worker order. The total is
// therefore bit-exact across runs for the same workload and worker count.
package reduce
