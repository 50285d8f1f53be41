// Package sysinfo describes the host the benchmark runs on and samples its
// system-wide CPU and memory usage.
package sysinfo

//go:generate mockgen -source=sysinfo.go -destination=mocks/mock_provider.go -package=mocks

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Unknown is reported for fields the host does not expose.
const Unknown = "unknown"

// Info is a static description of the host.
type Info struct {
	OS            string
	Platform      string
	Hostname      string
	Arch          string
	LogicalCPUs   int
	CPUModel      string
	TotalMemoryGB float64
	GoVersion     string
	CPUFeatures   []string
}

// Provider returns the host description.
type Provider interface {
	Info(ctx context.Context) (Info, error)
}

// GopsutilProvider reads host details through gopsutil.
type GopsutilProvider struct{}

// NewProvider returns the default Provider.
func NewProvider() Provider { return GopsutilProvider{} }

// Info never fails on a partially readable host: missing fields degrade to
// Unknown or zero. The error is reserved for a canceled context.
func (GopsutilProvider) Info(ctx context.Context) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	info := Info{
		OS:          runtime.GOOS,
		Platform:    Unknown,
		Hostname:    Unknown,
		Arch:        runtime.GOARCH,
		LogicalCPUs: runtime.NumCPU(),
		CPUModel:    Unknown,
		GoVersion:   runtime.Version(),
		CPUFeatures: CPUFeatures(),
	}

	if h, err := host.InfoWithContext(ctx); err == nil && h != nil {
		if h.Hostname != "" {
			info.Hostname = h.Hostname
		}
		if h.Platform != "" {
			info.Platform = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		}
	} else if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 && cpus[0].ModelName != "" {
		info.CPUModel = strings.TrimSpace(cpus[0].ModelName)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		info.TotalMemoryGB = float64(vm.Total) / (1 << 30)
	}

	return info, nil
}

// CPUFeatures lists the SIMD extensions detected on the current CPU.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasSSE42, "SSE4.2")
		add(xcpu.X86.HasAVX2, "AVX2")
		add(xcpu.X86.HasAVX512F, "AVX512F")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "ASIMD")
		add(xcpu.ARM64.HasSVE, "SVE")
	}
	return features
}

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}
