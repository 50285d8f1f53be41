package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the sumbench binary and runs it end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e build in short mode")
	}

	tmpDir := t.TempDir()
	binName := "sumbench"
	if runtime.GOOS == "windows" {
		binName = "sumbench.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs from the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/sumbench")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build sumbench: %v", err)
	}

	metricsPath := filepath.Join(tmpDir, "out.prom")

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Comparison",
			args:     []string{"--sizes", "10000,50000", "--seed", "1", "--no-sysinfo"},
			wantOut:  "All strategies agree",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Quiet Single Strategy",
			args:     []string{"--sizes", "1000", "--algo", "pargo", "--quiet"},
			wantOut:  "Parallel (pargo)",
			wantCode: 0,
		},
		{
			name:     "Sweep",
			args:     []string{"--sizes", "20000", "--workers", "2", "--sweep", "--no-sysinfo"},
			wantOut:  "Optimal worker count",
			wantCode: 0,
		},
		{
			name:     "Metrics File",
			args:     []string{"--sizes", "1000", "--quiet", "--metrics-file", metricsPath},
			wantCode: 0,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"--sizes", "50000000", "--timeout", "1ns", "--quiet"},
			wantCode: 2,
		},
		{
			name:     "Unknown Strategy",
			args:     []string{"--algo", "quantum"},
			wantOut:  "unknown",
			wantCode: 4,
		},
		{
			name:     "Invalid Sizes",
			args:     []string{"--sizes", "-5"},
			wantCode: 1,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "sumbench",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("running sumbench: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput:\n%s", code, tt.wantCode, outStr)
			}

			if tt.wantOut != "" && !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "sumbench_reductions_total") {
		t.Error("metrics file missing the reductions counter")
	}
}
