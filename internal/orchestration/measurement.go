package orchestration

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/sumbench/internal/logging"
	"github.com/agbru/sumbench/internal/memory"
	"github.com/agbru/sumbench/internal/reduce"
)

const tracerName = "github.com/agbru/sumbench/internal/orchestration"

var sequentialName = reduce.SequentialReducer{}.Name()

// measurement is a single timed reduction.
type measurement struct {
	sum      int64
	duration time.Duration
	gc       memory.GCStats
	err      error
}

// measure times one call to r.Sum. The timer covers only the reduction; GC
// suspension and restoration happen outside it. The span is closed before
// returning.
func measure(ctx context.Context, cfg BenchmarkConfig, r reduce.Reducer, workload []int32) measurement {
	_, span := otel.Tracer(tracerName).Start(ctx, "reduce",
		trace.WithAttributes(
			attribute.String("strategy", r.Name()),
			attribute.Int("size", len(workload)),
			attribute.Int("workers", cfg.Workers),
		))
	defer span.End()

	gc := memory.NewGCController(cfg.GCMode, len(workload))
	if zl, ok := cfg.Logger.(*logging.ZerologAdapter); ok {
		gc.SetLogger(zl.Zerolog())
	}

	gc.Begin()
	start := time.Now()
	sum, err := r.Sum(workload, cfg.Workers)
	elapsed := time.Since(start)
	gc.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int64("sum", sum))
	}
	return measurement{sum: sum, duration: elapsed, gc: gc.Stats(), err: err}
}
