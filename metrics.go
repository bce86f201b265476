// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

import (
	"github.com/prometheus/client_golang/prometheus"
)

// operation results, used as metric label
const (
	resultOK    = "ok"
	resultMiss  = "miss"
	resultError = "error"
)

// Metrics are prometheus collectors shared by one or more stores.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ops     *prometheus.CounterVec
	entries *prometheus.GaugeVec
	aborts  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg, if reg
// is not nil. The metric names are prefixed with namespace.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radix_operations_total",
			Help:      "Number of store operations by operation and result",
		}, []string{"op", "result"}),

		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "radix_entries",
			Help:      "Number of stored prefixes by address family",
		}, []string{"family"}),

		aborts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radix_enumeration_aborts_total",
			Help:      "Number of enumerations aborted by a concurrent modification",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ops, m.entries, m.aborts)
	}
	return m
}

func (m *Metrics) observe(op, result string) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *Metrics) setEntries(fam Family, n int) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(fam.String()).Set(float64(n))
}

func (m *Metrics) abort() {
	if m == nil {
		return
	}
	m.aborts.Inc()
}
