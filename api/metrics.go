package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/piranimarcos/bookApp/resolver"
)

type Metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookapp",
			Name:      "operations_total",
			Help:      "Operations served, by outcome code.",
		}, []string{"operation", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookapp",
			Name:      "operation_duration_seconds",
			Help:      "Time spent serving an operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.operations, m.latency)

	return m
}

func (m *Metrics) track(op string, start time.Time, err *error) {
	code := "ok"
	if *err != nil {
		code = string(resolver.KindOf(*err))
		if code == "" {
			code = "error"
		}
	}

	m.operations.WithLabelValues(op, code).Inc()
	m.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Operations exposes the per-operation counter.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}
