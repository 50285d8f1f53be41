// Package app wires configuration, the benchmark harness and the output
// surfaces (CLI, quiet, TUI) into the sumbench command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/sumbench/internal/config"
	apperrors "github.com/agbru/sumbench/internal/errors"
	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/memory"
	"github.com/agbru/sumbench/internal/metrics"
	"github.com/agbru/sumbench/internal/orchestration"
	"github.com/agbru/sumbench/internal/reduce"
	"github.com/agbru/sumbench/internal/sysinfo"
	"github.com/agbru/sumbench/internal/ui"
	"github.com/agbru/sumbench/internal/workload"
)

// Application represents the sumbench application instance.
type Application struct {
	Config    config.AppConfig
	Factory   *reduce.Factory
	SysInfo   sysinfo.Provider
	Generator workload.Generator
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom reducer factory for the application.
func WithFactory(f *reduce.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithSysInfoProvider replaces the gopsutil-backed host description.
func WithSysInfoProvider(p sysinfo.Provider) AppOption {
	return func(a *Application) { a.SysInfo = p }
}

// WithGenerator replaces the random workload generator.
func WithGenerator(g workload.Generator) AppOption {
	return func(a *Application) { a.Generator = g }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = reduce.NewDefaultFactory()
	}
	if app.SysInfo == nil {
		app.SysInfo = sysinfo.NewProvider()
	}

	programName := "sumbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = config.ApplyHardwareDefaults(cfg)

	if app.Generator == nil {
		app.Generator = workload.NewRandomGenerator(workload.Options{
			Min:  int32(app.Config.MinValue),
			Max:  int32(app.Config.MaxValue),
			Seed: app.Config.Seed,
		})
	}
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	logger := a.newLogger()

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	reducers, err := a.Factory.Select(a.Config.Algo)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	recorder := metrics.NewRecorder()
	bench := orchestration.BenchmarkConfig{
		Sizes:   a.Config.Sizes,
		Workers: a.Config.Workers,
		Repeat:  a.Config.Repeat,
		GCMode:  memory.GCMode(a.Config.GCMode),
		Metrics: recorder,
		Logger:  logger,
	}
	logger.Debug("configuration resolved",
		logging.String("sizes", config.FormatSizes(a.Config.Sizes)),
		logging.Int("workers", a.Config.Workers),
		logging.String("algo", a.Config.Algo),
		logging.Uint64("seed", a.seed()))

	var exitCode int
	switch {
	case a.Config.TUI:
		exitCode = a.runTUI(ctx, bench, reducers)
	case a.Config.Sweep:
		exitCode = a.runSweep(ctx, out, bench)
	default:
		exitCode = a.runBenchmark(ctx, out, bench, reducers)
	}

	if code := a.writeMetrics(recorder, logger); code != apperrors.ExitSuccess && exitCode == apperrors.ExitSuccess {
		exitCode = code
	}
	return exitCode
}

func (a *Application) newLogger() *logging.ZerologAdapter {
	level := logging.ParseLevel(a.Config.LogLevel)
	if a.Config.TUI {
		// Log lines would tear the alternate screen.
		level = zerolog.Disabled
	}
	return logging.NewConsoleLogger(a.ErrWriter, "sumbench", level, a.Config.NoColor)
}

// seed returns the effective generator seed, or the configured one when a
// custom generator hides it.
func (a *Application) seed() uint64 {
	if g, ok := a.Generator.(*workload.RandomGenerator); ok {
		return g.Seed()
	}
	return a.Config.Seed
}

// systemInfo describes the host. Failures degrade to a partial description.
func (a *Application) systemInfo(ctx context.Context, logger logging.Logger) sysinfo.Info {
	info, err := a.SysInfo.Info(ctx)
	if err != nil {
		logger.Debug("system information unavailable", logging.Err(err))
	}
	return info
}

// writeMetrics saves the Prometheus exposition when --metrics-file is set.
func (a *Application) writeMetrics(recorder *metrics.Recorder, logger logging.Logger) int {
	if a.Config.MetricsFile == "" {
		return apperrors.ExitSuccess
	}
	if err := recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
		logger.Error("writing metrics file", err, logging.String("path", a.Config.MetricsFile))
		fmt.Fprintf(a.ErrWriter, "Error writing metrics file: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	logger.Info("metrics written", logging.String("path", a.Config.MetricsFile))
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
