package sysinfo

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestGopsutilProviderInfo(t *testing.T) {
	info, err := NewProvider().Info(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.OS != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Errorf("OS/Arch = %s/%s", info.OS, info.Arch)
	}
	if info.LogicalCPUs != runtime.NumCPU() {
		t.Errorf("LogicalCPUs = %d, want %d", info.LogicalCPUs, runtime.NumCPU())
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s", info.GoVersion)
	}
	if info.Hostname == "" || info.CPUModel == "" || info.Platform == "" {
		t.Errorf("string fields must never be empty: %+v", info)
	}
	if info.TotalMemoryGB < 0 {
		t.Errorf("TotalMemoryGB = %f", info.TotalMemoryGB)
	}
}

func TestGopsutilProviderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Info(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCPUFeaturesKnownNames(t *testing.T) {
	t.Parallel()
	known := map[string]bool{"SSE4.2": true, "AVX2": true, "AVX512F": true, "ASIMD": true, "SVE": true}
	for _, f := range CPUFeatures() {
		if !known[f] {
			t.Errorf("unexpected feature name %q", f)
		}
	}
}

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}
