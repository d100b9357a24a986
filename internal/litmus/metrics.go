// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package litmus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports job results. Counters are labelled by scenario and order;
// unordered scenarios use the order label "fixed".
type Metrics struct {
	observations *prometheus.CounterVec
	forbidden    *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	labels := []string{"scenario", "order"}

	m := &Metrics{
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cellatomic_litmus_observations_total",
			Help: "Outcomes classified by litmus jobs.",
		}, labels),
		forbidden: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cellatomic_litmus_forbidden_total",
			Help: "Iterations that observed an outcome the memory model forbids.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cellatomic_litmus_duration_seconds",
			Help:    "Wall time of litmus jobs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, labels),
	}

	reg.MustRegister(m.observations, m.forbidden, m.duration)

	return m
}

func (m *Metrics) record(r Result) {
	order := "fixed"
	if r.Ordered {
		order = r.Order.String()
	}

	m.observations.WithLabelValues(r.Scenario, order).Add(float64(r.Observations))
	m.forbidden.WithLabelValues(r.Scenario, order).Add(float64(r.Forbidden.GetCardinality()))
	m.duration.WithLabelValues(r.Scenario, order).Observe(r.Elapsed.Seconds())
}
