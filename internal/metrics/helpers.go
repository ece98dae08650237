package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DurationBuckets: 10ms to 30s, a delete run is one pass over a source tree
var DurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30}

// NewDurationHistogramVec creates a labeled histogram for durations in seconds
func NewDurationHistogramVec(name, help string, labels []string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: DurationBuckets,
	}, labels)
}

// NewCounter creates a standard counter metric
func NewCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
}

// NewCounterVec creates a labeled counter
func NewCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)
}

// NewGauge creates a standard gauge metric
func NewGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
}

// NewGaugeVec creates a labeled gauge
func NewGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, labels)
}
