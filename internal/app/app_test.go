package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/reduce/mocks"
	"github.com/agbru/sumbench/internal/sysinfo"
	sysmocks "github.com/agbru/sumbench/internal/sysinfo/mocks"
)

func newTestApp(t *testing.T, args []string, opts ...AppOption) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	application, err := New(append([]string{"sumbench"}, args...), &errBuf, opts...)
	if err != nil {
		t.Fatalf("New() error = %v\nstderr: %s", err, errBuf.String())
	}
	return application, &errBuf
}

func TestNew_Defaults(t *testing.T) {
	application, _ := newTestApp(t, nil)
	if application.Config.Workers < 1 {
		t.Errorf("workers = %d, hardware defaults not applied", application.Config.Workers)
	}
	if application.Factory == nil || application.SysInfo == nil || application.Generator == nil {
		t.Error("New should install default collaborators")
	}
}

func TestNew_HelpAndInvalidFlags(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"sumbench", "--help"}, &errBuf)
	if !IsHelpError(err) {
		t.Errorf("--help: got %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(errBuf.String(), "Usage") {
		t.Error("--help should print usage")
	}

	_, err = New([]string{"sumbench", "--algo", "bogus"}, &bytes.Buffer{})
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("unknown algo: got %v, want ConfigError", err)
	}
}

func TestRun_QuietBenchmark(t *testing.T) {
	application, _ := newTestApp(t, []string{"--sizes", "1000,5000", "-w", "3", "--seed", "42", "--quiet"})

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\noutput: %s", code, out.String())
	}
	lines := 0
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.Count(line, "\t") == 3 {
			lines++
		}
	}
	if lines != 6 {
		t.Errorf("got %d result lines, want 6\n%s", lines, out.String())
	}
	if strings.Contains(out.String(), "System Information") {
		t.Error("quiet mode should skip the system banner")
	}
}

func TestRun_FullOutputUsesSysInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := sysmocks.NewMockProvider(ctrl)
	provider.EXPECT().Info(gomock.Any()).Return(sysinfo.Info{
		OS: "linux", Arch: "amd64", LogicalCPUs: 8, CPUModel: "Test CPU",
	}, nil)

	application, _ := newTestApp(t, []string{"--sizes", "2000", "--seed", "7", "--no-color"},
		WithSysInfoProvider(provider))

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\noutput: %s", code, out.String())
	}
	for _, want := range []string{"System Information", "Test CPU", "seed 7", "Array size", "Global Status: Success"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_NoSysInfoSkipsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := sysmocks.NewMockProvider(ctrl) // no calls expected

	application, _ := newTestApp(t, []string{"--sizes", "100", "--no-sysinfo", "--no-color"},
		WithSysInfoProvider(provider))
	if code := application.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
}

func TestRun_MismatchExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := mocks.NewMockReducer(ctrl)
	broken.EXPECT().Name().Return("Broken").AnyTimes()
	broken.EXPECT().Sum(gomock.Any(), gomock.Any()).Return(int64(-1), nil)

	factory := reduce.NewDefaultFactory()
	factory.Register("broken", broken)
	application, _ := newTestApp(t, []string{"--sizes", "100", "--quiet"}, WithFactory(factory))

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorMismatch {
		t.Errorf("exit code = %d, want %d\n%s", code, apperrors.ExitErrorMismatch, out.String())
	}
}

func TestRun_CanceledContext(t *testing.T) {
	application, _ := newTestApp(t, []string{"--sizes", "100", "--quiet"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if code := application.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(out.String(), "Canceled") {
		t.Errorf("output should report the cancellation: %q", out.String())
	}
}

func TestRun_Sweep(t *testing.T) {
	application, _ := newTestApp(t, []string{"--sizes", "100,4000", "-w", "2", "--sweep", "--quiet"})

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	// Worker counts 1, 2, 4.
	if got := strings.Count(out.String(), "\n"); got != 3 {
		t.Errorf("got %d sweep lines, want 3\n%s", got, out.String())
	}
}

func TestRun_WritesMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sumbench.prom")
	application, _ := newTestApp(t, []string{"--sizes", "500", "--quiet", "--metrics-file", path})

	if code := application.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"sumbench_reductions_total", "sumbench_reduction_duration_seconds", `strategy="Sequential"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file missing %q", want)
		}
	}
}

func TestRun_MetricsFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.prom")
	application, errBuf := newTestApp(t, []string{"--sizes", "50", "--quiet", "--metrics-file", path})

	if code := application.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errBuf.String(), "metrics file") {
		t.Errorf("stderr should mention the metrics file: %q", errBuf.String())
	}
}

func TestNew_ValueRangeOutsideInt32(t *testing.T) {
	for _, args := range [][]string{
		{"--min", "1", "--max", "4294967396"},
		{"--min", "-3000000000", "--max", "10"},
	} {
		_, err := New(append([]string{"sumbench"}, args...), &bytes.Buffer{})
		if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorConfig {
			t.Errorf("New(%v) error = %v, exit code %d; want %d", args, err, code, apperrors.ExitErrorConfig)
		}
	}
}
