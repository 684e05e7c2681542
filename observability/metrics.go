package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names emitted by the library.
const (
	MetricTransferDuration = "colortransfer_transfer_duration_seconds"
	MetricPixels           = "colortransfer_pixels_total"
	MetricFlatChannels     = "colortransfer_flat_channels_total"
	MetricClippedSamples   = "colortransfer_clipped_samples_total"
	MetricFailures         = "colortransfer_failures_total"
	MetricStageDuration    = "colortransfer_stage_duration_seconds"
)

// Metrics groups the Prometheus collectors updated by the engine and the
// pipeline. A nil *Metrics is valid and records nothing.
type Metrics struct {
	TransferDuration prometheus.Histogram
	Pixels           prometheus.Counter
	FlatChannels     prometheus.Counter
	ClippedSamples   prometheus.Counter
	Failures         *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransferDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricTransferDuration,
			Help:    "Time spent in the color transfer computation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		Pixels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricPixels,
			Help: "Content pixels recolored.",
		}),
		FlatChannels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricFlatChannels,
			Help: "Content channels with zero deviation where scaling was skipped.",
		}),
		ClippedSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricClippedSamples,
			Help: "Output samples clipped to the valid range.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricFailures,
			Help: "Failed operations by stage.",
		}, []string{"stage"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricStageDuration,
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.TransferDuration, m.Pixels, m.FlatChannels, m.ClippedSamples, m.Failures, m.StageDuration)
	}
	return m
}

// ObserveTransfer records one completed transfer.
func (m *Metrics) ObserveTransfer(d time.Duration, pixels, flat, clipped int) {
	if m == nil {
		return
	}
	m.TransferDuration.Observe(d.Seconds())
	m.Pixels.Add(float64(pixels))
	m.FlatChannels.Add(float64(flat))
	m.ClippedSamples.Add(float64(clipped))
}

// ObserveStage records the duration of a named pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Fail counts a failure in stage.
func (m *Metrics) Fail(stage string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(stage).Inc()
}
