// Package metrics exposes Prometheus collectors for the event bus and the
// plugin registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors the host maintains.
type Metrics struct {
	EventsPublished *prometheus.CounterVec
	HandlerFaults   *prometheus.CounterVec
	PluginsActive   prometheus.Gauge
	Activations     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Tests pass a
// fresh registry so instances stay isolated.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		EventsPublished: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Events published to the bus, by event type.",
		}, []string{"type"}),
		HandlerFaults: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "events",
			Name:      "handler_faults_total",
			Help:      "Recovered event handler panics, by event type.",
		}, []string{"type"}),
		PluginsActive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "nexus",
			Subsystem: "plugins",
			Name:      "registered",
			Help:      "Plugins currently registered.",
		}),
		Activations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexus",
			Subsystem: "plugins",
			Name:      "activations_total",
			Help:      "Plugin activation outcomes.",
		}, []string{"outcome"}),
	}
}
