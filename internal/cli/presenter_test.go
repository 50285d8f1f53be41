package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/ui"
)

func noColor(t *testing.T) {
	t.Helper()
	saved := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(saved) })
}

func sampleReport() orchestration.SizeReport {
	return orchestration.SizeReport{
		Size:     1_000_000,
		Expected: 49_500_000,
		Results: []orchestration.RunResult{
			{Strategy: "Sequential", Size: 1_000_000, Workers: 1, Sum: 49_500_000, Duration: 8 * time.Millisecond, Runs: 1, Match: true},
			{Strategy: "Parallel (goroutines)", Size: 1_000_000, Workers: 4, Sum: 49_500_000, Duration: 2 * time.Millisecond, Runs: 1, Match: true},
			{Strategy: "Broken", Size: 1_000_000, Workers: 4, Err: apperrors.BenchmarkError{
				Strategy: "Broken", Size: 1_000_000,
				Cause: &reduce.WorkerFailureError{Worker: 2, Range: reduce.Range{Start: 500_000, End: 750_000}, Cause: errors.New("boom")},
			}},
			{Strategy: "OffByOne", Size: 1_000_000, Workers: 4, Sum: 49_500_001, Duration: time.Millisecond, Runs: 1},
		},
	}
}

func TestCLIResultPresenter_PresentSizeReport(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSizeReport(sampleReport(), &buf)
	out := buf.String()

	for _, want := range []string{
		"Array size: 1,000,000",
		"Strategy", "Speedup",
		"49,500,000", "8.00 ms", "1.00x",
		"2.00 ms", "4.00x",
		"❌ Failure (Broken failed on 1000000 elements: worker 2 failed on range [500000,750000): boom)",
		"❌ Mismatch (expected 49,500,000)",
		"✅ OK",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	brokenLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Broken ") {
			brokenLine = line
		}
	}
	if strings.Contains(brokenLine, "ms") {
		t.Errorf("a failed strategy must not show a timing: %q", brokenLine)
	}
}

func TestCLIResultPresenter_GenerationError(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSizeReport(orchestration.SizeReport{Size: 10, Err: errors.New("no data")}, &buf)
	if !strings.Contains(buf.String(), "❌ no data") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestCLIResultPresenter_PresentSweep(t *testing.T) {
	noColor(t)
	report := orchestration.SweepReport{
		Strategy: "Parallel (goroutines)",
		Size:     10_000_000,
		Points: []orchestration.SweepPoint{
			{Workers: 1, Duration: 12 * time.Millisecond},
			{Workers: 2, Duration: 6 * time.Millisecond},
			{Workers: 4, Err: errors.New("boom")},
		},
		BestWorkers:  2,
		BestDuration: 6 * time.Millisecond,
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSweep(report, &buf)
	out := buf.String()
	for _, want := range []string{"Worker Sweep: Parallel (goroutines) on 10,000,000 elements", "2.00x (Optimal)", "N/A (boom)", "Optimal worker count: 2 (6.00 ms)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIResultPresenter_HandleError(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	if code := (CLIResultPresenter{}).HandleError(context.Canceled, &buf); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(buf.String(), "Canceled") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestQuietPresenter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	QuietPresenter{}.PresentSizeReport(sampleReport(), &buf)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "1000000\tSequential\t49500000\t8.00" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "1000000\tBroken\terror\t") {
		t.Errorf("line 2 = %q", lines[2])
	}

	buf.Reset()
	QuietPresenter{}.PresentSweep(orchestration.SweepReport{Points: []orchestration.SweepPoint{{Workers: 3, Duration: 1500 * time.Microsecond}}}, &buf)
	if buf.String() != "3\t1.50\n" {
		t.Errorf("sweep line = %q", buf.String())
	}

	buf.Reset()
	if code := (QuietPresenter{}).HandleError(context.DeadlineExceeded, &buf); code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
}

func TestAnalyzeReportsWithCLIPresenter(t *testing.T) {
	noColor(t)
	reducers, err := reduce.NewDefaultFactory().Select("all")
	if err != nil {
		t.Fatal(err)
	}
	cfg := orchestration.BenchmarkConfig{Sizes: []int{1000}, Workers: 4, Repeat: 1}
	reports := orchestration.RunBenchmark(context.Background(), cfg, reducers, staticGenerator{}, nil)

	var buf bytes.Buffer
	if code := orchestration.AnalyzeReports(reports, CLIResultPresenter{}, &buf); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d:\n%s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Parallel (pargo)") || !strings.Contains(buf.String(), "Global Status: Success") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

type staticGenerator struct{}

func (staticGenerator) Generate(_ context.Context, size int) ([]int32, error) {
	out := make([]int32, size)
	for i := range out {
		out[i] = 7
	}
	return out, nil
}
