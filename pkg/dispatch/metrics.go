package dispatch

import (
	"sync"
	"time"
)

// MetricsRecorder defines metrics hooks for dispatcher operations.
type MetricsRecorder interface {
	RecordConnect(signal string, weak bool)
	RecordDisconnect(signal string)
	RecordReaped(signal string, count int)
	RecordDispatch(signal string, mode string, receivers int, duration time.Duration)
	RecordReceiverError(signal string, mode string)
	RecordReceivers(signal string, count int)
}

type nopMetrics struct{}

func (n *nopMetrics) RecordConnect(signal string, weak bool)                                    {}
func (n *nopMetrics) RecordDisconnect(signal string)                                            {}
func (n *nopMetrics) RecordReaped(signal string, count int)                                     {}
func (n *nopMetrics) RecordDispatch(signal string, mode string, receivers int, d time.Duration) {}
func (n *nopMetrics) RecordReceiverError(signal string, mode string)                            {}
func (n *nopMetrics) RecordReceivers(signal string, count int)                                  {}

var (
	metricsMu sync.RWMutex
	metrics   MetricsRecorder = &nopMetrics{}
)

// SetMetricsRecorder sets the package-level dispatch metrics recorder.
func SetMetricsRecorder(recorder MetricsRecorder) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if recorder == nil {
		metrics = &nopMetrics{}
		return
	}
	metrics = recorder
}

func metricsRecorder() MetricsRecorder {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	if metrics == nil {
		return &nopMetrics{}
	}
	return metrics
}
