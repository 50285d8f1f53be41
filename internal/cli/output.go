// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplaySystemInfo], [DisplayExecutionConfig].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult], [FormatSystemInfo].

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/sysinfo"
	"github.com/agbru/sumbench/internal/ui"
)

// ExecutionConfig is what DisplayExecutionConfig reports about a run.
type ExecutionConfig struct {
	Sizes      []int
	Strategies []string
	Workers    int
	Repeat     int
	Seed       uint64
	MinValue   int
	MaxValue   int
	Timeout    time.Duration
	GCMode     string
}

// FormatSystemInfo renders the host description as "label: value" lines.
func FormatSystemInfo(info sysinfo.Info) []string {
	features := "none detected"
	if len(info.CPUFeatures) > 0 {
		features = strings.Join(info.CPUFeatures, ", ")
	}
	memory := sysinfo.Unknown
	if info.TotalMemoryGB > 0 {
		memory = fmt.Sprintf("%.1f GB", info.TotalMemoryGB)
	}
	return []string{
		"OS: " + info.OS + " (" + info.Platform + ")",
		"Hostname: " + info.Hostname,
		fmt.Sprintf("Logical processors: %d", info.LogicalCPUs),
		"Memory: " + memory,
		"Architecture: " + info.Arch,
		"CPU: " + info.CPUModel,
		"CPU features: " + features,
		"Go runtime: " + info.GoVersion,
	}
}

// DisplaySystemInfo prints the system information banner.
func DisplaySystemInfo(info sysinfo.Info, out io.Writer) {
	fmt.Fprintf(out, "%s=== System Information ===%s\n", ui.ColorBold(), ui.ColorReset())
	for _, line := range FormatSystemInfo(info) {
		label, value, _ := strings.Cut(line, ": ")
		fmt.Fprintf(out, "%s%s%s: %s\n", ui.ColorBlue(), label, ui.ColorReset(), value)
	}
	fmt.Fprintln(out)
}

// DisplayExecutionConfig prints what is about to be benchmarked.
func DisplayExecutionConfig(cfg ExecutionConfig, out io.Writer) {
	sizes := make([]string, len(cfg.Sizes))
	for i, n := range cfg.Sizes {
		sizes[i] = format.FormatNumber(int64(n))
	}
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Sizes: %s%s%s, values in [%d, %d), seed %s%d%s.\n",
		ui.ColorMagenta(), strings.Join(sizes, ", "), ui.ColorReset(),
		cfg.MinValue, cfg.MaxValue, ui.ColorCyan(), cfg.Seed, ui.ColorReset())
	fmt.Fprintf(out, "Strategies: %s%s%s with %s%d%s workers, %d run(s) each, GC mode %s.\n",
		ui.ColorGreen(), strings.Join(cfg.Strategies, ", "), ui.ColorReset(),
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), cfg.Repeat, cfg.GCMode)
	fmt.Fprintf(out, "Timeout: %s%s%s.\n", ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// FormatQuietResult formats a result for quiet mode output: tab-separated
// size, strategy, sum and milliseconds, or "error" and the message.
func FormatQuietResult(res orchestration.RunResult) string {
	if res.Err != nil {
		return fmt.Sprintf("%d\t%s\terror\t%v", res.Size, res.Strategy, res.Err)
	}
	return fmt.Sprintf("%d\t%s\t%d\t%.2f", res.Size, res.Strategy, res.Sum, res.Duration.Seconds()*1000)
}
