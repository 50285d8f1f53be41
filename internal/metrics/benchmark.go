// Package metrics records benchmark measurements in a Prometheus registry and
// reads runtime memory statistics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sumbench"

// Run status label values.
const (
	StatusOK       = "ok"
	StatusMismatch = "mismatch"
	StatusError    = "error"
)

// Recorder owns a private registry so several recorders can coexist in one
// process (tests, sweeps) without duplicate registration panics.
type Recorder struct {
	registry   *prometheus.Registry
	duration   *prometheus.HistogramVec
	reductions *prometheus.CounterVec
	throughput *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with the benchmark metrics and the Go
// runtime collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reduction_duration_seconds",
			Help:      "Wall-clock duration of a single reduction.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12),
		}, []string{"strategy", "size"}),
		reductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reductions_total",
			Help:      "Reductions performed, by outcome.",
		}, []string{"strategy", "status"}),
		throughput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elements_per_second",
			Help:      "Elements summed per second by the most recent run.",
		}, []string{"strategy", "size"}),
	}
	r.registry.MustRegister(
		r.duration,
		r.reductions,
		r.throughput,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveRun records one reduction. Throughput is only set for successful
// runs with a non-zero duration.
func (r *Recorder) ObserveRun(strategy string, size int, d time.Duration, status string) {
	sizeLabel := strconv.Itoa(size)
	r.reductions.WithLabelValues(strategy, status).Inc()
	if status == StatusError {
		return
	}
	r.duration.WithLabelValues(strategy, sizeLabel).Observe(d.Seconds())
	if d > 0 {
		r.throughput.WithLabelValues(strategy, sizeLabel).Set(float64(size) / d.Seconds())
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WritePrometheus writes the current metrics to w.
func (r *Recorder) WritePrometheus(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

// WriteTextfile atomically writes the metrics to path in the text format
// read by the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
