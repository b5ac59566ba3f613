package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "paramform"

// Metrics counts form commits and field updates on a private registry. A nil
// *Metrics records nothing.
type Metrics struct {
	commits      *prometheus.CounterVec
	fieldUpdates *prometheus.CounterVec
	registry     *prometheus.Registry
}

// NewMetrics registers the form counters under namespace, or
// DefaultNamespace when empty.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commits_total",
				Help:      "Total number of form commits by trigger",
			},
			[]string{"trigger"},
		),
		fieldUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_updates_total",
				Help:      "Total number of control to field writes by outcome",
			},
			[]string{"field", "outcome"},
		),
	}
	m.registry.MustRegister(m.commits, m.fieldUpdates)
	return m
}

// RecordCommit counts a commit.
func (m *Metrics) RecordCommit(trigger string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(trigger).Inc()
}

// RecordFieldUpdate counts a write from a control into a field.
func (m *Metrics) RecordFieldUpdate(field, outcome string) {
	if m == nil {
		return
	}
	m.fieldUpdates.WithLabelValues(field, outcome).Inc()
}

// Registry exposes the private registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
