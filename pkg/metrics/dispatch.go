package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (m *Manager) initDispatchMetrics(cfg Config) {
	m.connects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_connects_total",
			Help: "Total number of receiver registrations",
		},
		[]string{"signal", "weak"},
	)

	m.disconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_disconnects_total",
			Help: "Total number of explicit receiver disconnections",
		},
		[]string{"signal"},
	)

	m.reaped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_reaped_total",
			Help: "Total number of dead weak receivers reaped from registries",
		},
		[]string{"signal"},
	)

	m.dispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_sends_total",
			Help: "Total number of dispatch calls by mode",
		},
		[]string{"signal", "mode"},
	)

	m.receiverErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_receiver_errors_total",
			Help: "Total number of receiver errors observed during dispatch",
		},
		[]string{"signal", "mode"},
	)

	m.dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_duration_seconds",
			Help:    "Dispatch call duration in seconds",
			Buckets: cfg.DispatchDurationBuckets,
		},
		[]string{"signal", "mode"},
	)

	m.liveReceivers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dispatch_receivers",
			Help: "Current number of registered receivers per signal",
		},
		[]string{"signal"},
	)

	m.registry.MustRegister(m.connects)
	m.registry.MustRegister(m.disconnects)
	m.registry.MustRegister(m.reaped)
	m.registry.MustRegister(m.dispatches)
	m.registry.MustRegister(m.receiverErrors)
	m.registry.MustRegister(m.dispatchDuration)
	m.registry.MustRegister(m.liveReceivers)
}

// RecordConnect records a receiver registration.
func (m *Manager) RecordConnect(signal string, weak bool) {
	if !m.enabled {
		return
	}
	weakLabel := "false"
	if weak {
		weakLabel = "true"
	}
	m.connects.WithLabelValues(signal, weakLabel).Inc()
}

// RecordDisconnect records an explicit receiver disconnection.
func (m *Manager) RecordDisconnect(signal string) {
	if !m.enabled {
		return
	}
	m.disconnects.WithLabelValues(signal).Inc()
}

// RecordReaped records dead weak receivers removed from a registry.
func (m *Manager) RecordReaped(signal string, count int) {
	if !m.enabled {
		return
	}
	m.reaped.WithLabelValues(signal).Add(float64(count))
}

// RecordDispatch records a dispatch call with its duration.
func (m *Manager) RecordDispatch(signal string, mode string, receivers int, duration time.Duration) {
	if !m.enabled {
		return
	}
	m.dispatches.WithLabelValues(signal, mode).Inc()
	m.dispatchDuration.WithLabelValues(signal, mode).Observe(duration.Seconds())
}

// RecordReceiverError records a receiver failure observed during dispatch.
func (m *Manager) RecordReceiverError(signal string, mode string) {
	if !m.enabled {
		return
	}
	m.receiverErrors.WithLabelValues(signal, mode).Inc()
}

// RecordReceivers records the current receiver count of a signal.
func (m *Manager) RecordReceivers(signal string, count int) {
	if !m.enabled {
		return
	}
	m.liveReceivers.WithLabelValues(signal).Set(float64(count))
}
