package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce   sync.Once
	actionLock sync.Mutex
)

// ErrorsTotal counts failed operations across all actions
var ErrorsTotal prometheus.Counter

// Init initializes all metrics and registers them with Prometheus
// This function is safe to call multiple times (uses sync.Once)
func Init() {
	initOnce.Do(func() {
		ErrorsTotal = NewCounter(
			"hdftool_errors_total",
			"Total number of failed delete operations.",
		)
		prometheus.MustRegister(ErrorsTotal)

		initDeleteMetrics()
		registerDeleteMetrics()

		// present in exports before the first run
		LastRunTimestamp.Set(0)
	})
}

// WriteTextfile exports every registered metric to path in the text
// exposition format, for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
