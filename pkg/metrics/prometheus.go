package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	signalValue    *prometheus.GaugeVec
	signalMedian   *prometheus.GaugeVec
	forecastsTotal prometheus.Counter
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiltboard_provider_fetches_total",
				Help: "Total number of provider fetches by symbol and outcome",
			},
			[]string{"symbol", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiltboard_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		signalValue: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tiltboard_signal_value",
				Help: "Last observed value for a macro signal",
			},
			[]string{"signal"},
		),
		signalMedian: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tiltboard_signal_median",
				Help: "Trailing 12-month median reference for a macro signal",
			},
			[]string{"signal"},
		),
		forecastsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tiltboard_forecasts_total",
				Help: "Total number of forecast tables computed",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tiltboard_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a provider fetch outcome for a symbol.
func (r *Recorder) RecordFetch(symbol, outcome string) {
	r.fetchesTotal.WithLabelValues(symbol, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSignal records the current value and median reference for a signal.
func (r *Recorder) RecordSignal(signal string, value, median float64) {
	r.signalValue.WithLabelValues(signal).Set(value)
	r.signalMedian.WithLabelValues(signal).Set(median)
}

// RecordForecast records a computed forecast table.
func (r *Recorder) RecordForecast() {
	r.forecastsTotal.Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
