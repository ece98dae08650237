package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Delete run metrics
var (
	// PathsRemovedTotal counts removed files and directories by kind
	PathsRemovedTotal *prometheus.CounterVec

	// BytesFreedTotal sums the size of removed files and directories
	BytesFreedTotal prometheus.Counter

	// FilesEditedTotal counts in-place rewrites by editor
	FilesEditedTotal *prometheus.CounterVec

	// SkippedTotal counts planned operations whose target was absent
	SkippedTotal *prometheus.CounterVec

	// OperationDuration tracks how long a delete run takes per action type
	OperationDuration *prometheus.HistogramVec

	// LastRunTimestamp records Unix timestamp of the last run
	LastRunTimestamp prometheus.Gauge

	// LastAction is 1 for the action type of the last run, 0 otherwise
	LastAction *prometheus.GaugeVec
)

func initDeleteMetrics() {
	PathsRemovedTotal = NewCounterVec(
		"hdftool_paths_removed_total",
		"Total number of files and directories removed.",
		[]string{"kind"},
	)

	BytesFreedTotal = NewCounter(
		"hdftool_bytes_freed_total",
		"Total bytes held by removed files and directories.",
	)

	FilesEditedTotal = NewCounterVec(
		"hdftool_files_edited_total",
		"Total number of build and config files edited in place.",
		[]string{"editor"},
	)

	SkippedTotal = NewCounterVec(
		"hdftool_operations_skipped_total",
		"Total number of planned operations skipped because the target was absent.",
		[]string{"kind"},
	)

	OperationDuration = NewDurationHistogramVec(
		"hdftool_operation_duration_seconds",
		"Duration of delete runs in seconds.",
		[]string{"action_type"},
	)

	LastRunTimestamp = NewGauge(
		"hdftool_last_run_timestamp",
		"Timestamp of the last delete run (Unix epoch seconds).",
	)

	LastAction = NewGaugeVec(
		"hdftool_last_action",
		"Action type of the last delete run (1 for the active label).",
		[]string{"action_type"},
	)
}

func registerDeleteMetrics() {
	prometheus.MustRegister(PathsRemovedTotal)
	prometheus.MustRegister(BytesFreedTotal)
	prometheus.MustRegister(FilesEditedTotal)
	prometheus.MustRegister(SkippedTotal)
	prometheus.MustRegister(OperationDuration)
	prometheus.MustRegister(LastRunTimestamp)
	prometheus.MustRegister(LastAction)
}

// RecordRun stamps the last run and its action type, and observes its duration
func RecordRun(actionType string, took time.Duration) {
	actionLock.Lock()
	defer actionLock.Unlock()

	LastAction.Reset()
	LastAction.WithLabelValues(actionType).Set(1)
	LastRunTimestamp.Set(float64(time.Now().Unix()))
	OperationDuration.WithLabelValues(actionType).Observe(took.Seconds())
}

// RecordRemoved counts one removed path of kind holding bytes
func RecordRemoved(kind string, bytes int64) {
	PathsRemovedTotal.WithLabelValues(kind).Inc()
	if bytes > 0 {
		BytesFreedTotal.Add(float64(bytes))
	}
}

func RecordEdited(editor string) {
	FilesEditedTotal.WithLabelValues(editor).Inc()
}

func RecordSkipped(kind string) {
	SkippedTotal.WithLabelValues(kind).Inc()
}

func RecordError() {
	ErrorsTotal.Inc()
}
