package config

import "runtime"

// Worker resolution chain (highest priority first):
//   1. CLI flags (--workers, -w)
//   2. Environment variable SUMBENCH_WORKERS
//   3. Logical CPU count (this file)

// ApplyHardwareDefaults fills fields left at their zero default with values
// derived from the host. User-specified values are preserved.
func ApplyHardwareDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers()
	}
	return cfg
}

// DefaultWorkers returns the number of logical CPUs usable by the process,
// never less than one.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if cpus := runtime.NumCPU(); cpus < n {
		n = cpus
	}
	if n < 1 {
		n = 1
	}
	return n
}
