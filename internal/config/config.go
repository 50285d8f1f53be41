// Package config defines the application configuration, its command-line
// flags and the SUMBENCH_* environment overrides.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/workload"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "SUMBENCH_"

// Defaults for the benchmark, taken from the original measurement setup.
const (
	DefaultMinValue = workload.DefaultMin
	DefaultMaxValue = workload.DefaultMax
	DefaultRepeat   = 1
	DefaultTimeout  = 5 * time.Minute
	DefaultAlgo     = "all"
	DefaultGCMode   = "auto"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Sizes lists the workload lengths to benchmark, in order.
	Sizes []int
	// Workers is the worker count used by the parallel strategies.
	// Zero means "use the number of logical CPUs".
	Workers int
	// Algo selects the strategy: "all" or a registered short name.
	Algo string
	// Repeat is the number of runs per strategy and size; the fastest is kept.
	Repeat int
	// Seed drives the workload generator. Zero picks a time-based seed.
	Seed uint64
	// MinValue and MaxValue bound the generated values to [MinValue, MaxValue).
	MinValue int
	MaxValue int
	// Timeout bounds the whole benchmark.
	Timeout time.Duration
	// GCMode controls GC suspension around timed runs: auto, aggressive or disabled.
	GCMode string
	// Sweep runs a worker-count sweep instead of the strategy comparison.
	Sweep bool
	// MetricsFile, if set, receives the Prometheus text exposition.
	MetricsFile string
	// Quiet prints one machine-readable line per run.
	Quiet bool
	// NoSysInfo suppresses the system information banner.
	NoSysInfo bool
	// TUI launches the interactive dashboard.
	TUI bool
	// NoColor disables colored output.
	NoColor bool
	// LogLevel is the zerolog level name.
	LogLevel string
}

// sizesFlag implements flag.Value for a comma-separated list of sizes.
type sizesFlag struct{ sizes *[]int }

func (s sizesFlag) String() string {
	if s.sizes == nil {
		return ""
	}
	return FormatSizes(*s.sizes)
}

func (s sizesFlag) Set(v string) error {
	parsed, err := ParseSizes(v)
	if err != nil {
		return err
	}
	*s.sizes = parsed
	return nil
}

// ParseSizes parses a comma-separated list of non-negative sizes. Underscores
// are accepted as digit separators ("1_000_000").
func ParseSizes(v string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(strings.ReplaceAll(part, "_", ""))
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid size %d: must be >= 0", n)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return sizes, nil
}

// FormatSizes renders sizes back to the flag syntax.
func FormatSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ParseConfig parses arguments into an AppConfig, applies environment
// overrides for flags not set explicitly, and validates the result.
//
// Parameters:
//   - programName: Name used in the usage message.
//   - args: Command-line arguments without the program name.
//   - errWriter: Destination for usage and parse errors.
//   - availableAlgos: Registered strategy names, for validation and help.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when --help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{Sizes: append([]int(nil), workload.DefaultSizes...)}
	algoHelp := fmt.Sprintf("Strategy to run: 'all' or one of %s.", strings.Join(availableAlgos, ", "))

	fs.Var(sizesFlag{&cfg.Sizes}, "sizes", "Comma-separated workload sizes.")
	fs.IntVar(&cfg.Workers, "workers", 0, "Worker count for parallel strategies (0 = logical CPUs).")
	fs.IntVar(&cfg.Workers, "w", 0, "Shorthand for --workers.")
	fs.StringVar(&cfg.Algo, "algo", DefaultAlgo, algoHelp)
	fs.IntVar(&cfg.Repeat, "repeat", DefaultRepeat, "Runs per strategy and size; the fastest is reported.")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Generator seed (0 = time-based).")
	fs.IntVar(&cfg.MinValue, "min", DefaultMinValue, "Smallest generated value (inclusive).")
	fs.IntVar(&cfg.MaxValue, "max", DefaultMaxValue, "Largest generated value (exclusive).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum duration of the whole benchmark.")
	fs.StringVar(&cfg.GCMode, "gc", DefaultGCMode, "GC suspension during timed runs: auto, aggressive, disabled.")
	fs.BoolVar(&cfg.Sweep, "sweep", false, "Sweep the goroutine strategy over worker counts.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "One line per run, for scripting.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.NoSysInfo, "no-sysinfo", false, "Do not print the system information banner.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Benchmarks sequential, goroutine-partitioned and pargo array summation.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintf(errWriter, "Error: %v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors.
func (c AppConfig) Validate(availableAlgos []string) error {
	if len(c.Sizes) == 0 {
		return apperrors.NewConfigError("at least one size is required")
	}
	for _, n := range c.Sizes {
		if n < 0 {
			return apperrors.NewConfigError("invalid size %d: must be >= 0", n)
		}
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("invalid worker count %d: must be >= 1 (or 0 for auto)", c.Workers)
	}
	if c.Repeat < 1 {
		return apperrors.NewConfigError("invalid repeat %d: must be >= 1", c.Repeat)
	}
	for _, v := range []struct {
		flag  string
		value int
	}{{"min", c.MinValue}, {"max", c.MaxValue}} {
		if v.value < math.MinInt32 || v.value > math.MaxInt32 {
			return apperrors.NewConfigError("--%s %d out of range: generated values are int32 [%d, %d]",
				v.flag, v.value, math.MinInt32, math.MaxInt32)
		}
	}
	if c.MinValue >= c.MaxValue {
		return apperrors.NewConfigError("invalid value range [%d, %d): min must be < max", c.MinValue, c.MaxValue)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	switch c.GCMode {
	case "auto", "aggressive", "disabled":
	default:
		return apperrors.NewConfigError("unknown GC mode %q (auto, aggressive, disabled)", c.GCMode)
	}
	if c.Algo != "all" && !contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown strategy %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
