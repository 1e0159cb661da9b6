// Package metrics exposes engine counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	Events   *prometheus.CounterVec
	Commits  *prometheus.CounterVec
	Loads    *prometheus.CounterVec
	Profiles prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formfill",
			Name:      "ui_events_total",
			Help:      "UI events by resolution result.",
		}, []string{"result"}),
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formfill",
			Name:      "values_committed_total",
			Help:      "Values written into host fields, by delivery mode.",
		}, []string{"mode"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formfill",
			Name:      "configuration_loads_total",
			Help:      "Configuration loads by outcome.",
		}, []string{"result"}),
		Profiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "formfill",
			Name:      "profiles",
			Help:      "Number of profiles in the loaded configuration.",
		}),
	}
	m.registry.MustRegister(m.Events, m.Commits, m.Loads, m.Profiles)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Event counts a resolved UI event.
func (m *Metrics) Event(result string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(result).Inc()
}

// Commit counts a value delivered with mode "set_text" or "paste".
func (m *Metrics) Commit(mode string) {
	if m == nil {
		return
	}
	m.Commits.WithLabelValues(mode).Inc()
}

// Load counts a configuration load with result "success" or "failure".
func (m *Metrics) Load(result string, profiles int) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(result).Inc()
	m.Profiles.Set(float64(profiles))
}
