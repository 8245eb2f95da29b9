// Package metrics records merge runs as Prometheus metrics.
//
// The CLI writes them in the node_exporter textfile format so batch merges
// can be monitored without a long-running server.
package metrics

import (
	"time"

	"github.com/arloliu/tidemux/mux2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tidemux"

// Outcome label values of Recorder.Merges.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder holds the counters, histograms and gauges of merge runs.
type Recorder struct {
	registry *prometheus.Registry
	clock    clockwork.Clock

	Merges         *prometheus.CounterVec // labels: outcome={success,error}
	SourcesRead    prometheus.Counter
	StationsMerged prometheus.Counter
	MissingSamples prometheus.Counter
	MergeDuration  prometheus.Histogram
	LastSuccess    prometheus.Gauge
}

// New creates a Recorder with its own registry. A nil clock uses real time.
func New(clock clockwork.Clock) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		clock:    clock,
		Merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Merge runs by outcome.",
		}, []string{"outcome"}),
		SourcesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_read_total",
			Help:      "Sources folded into successful merges.",
		}),
		StationsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stations_merged_total",
			Help:      "Station rows written by successful merges.",
		}),
		MissingSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_samples_total",
			Help:      "Series cells holding a missing sample in merged tables.",
		}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Duration of a complete merge, successful or not.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful merge.",
		}),
	}

	r.registry.MustRegister(
		r.Merges,
		r.SourcesRead,
		r.StationsMerged,
		r.MissingSamples,
		r.MergeDuration,
		r.LastSuccess,
	)

	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Start returns the start time to pass to Observe.
func (r *Recorder) Start() time.Time {
	return r.clock.Now()
}

// Observe records one merge that began at started. table is ignored when
// err is non-nil.
func (r *Recorder) Observe(started time.Time, sources int, table *mux2.Table, err error) {
	r.MergeDuration.Observe(r.clock.Since(started).Seconds())

	if err != nil || table == nil {
		r.Merges.WithLabelValues(OutcomeError).Inc()
		return
	}

	r.Merges.WithLabelValues(OutcomeSuccess).Inc()
	r.SourcesRead.Add(float64(sources))
	r.StationsMerged.Add(float64(len(table.Rows)))
	r.MissingSamples.Add(float64(table.MissingCells))
	r.LastSuccess.Set(float64(r.clock.Now().Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
