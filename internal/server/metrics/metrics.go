// Package metrics exposes Prometheus counters for identity operations,
// issued tokens and notifications. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

type Metrics struct {
	operations    *prometheus.CounterVec
	tokens        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New registers the counters on reg. Passing prometheus.DefaultRegisterer
// makes them visible on promhttp.Handler().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialhub",
			Name:      "identity_operations_total",
			Help:      "Identity service operations by operation and result.",
		}, []string{"operation", "result"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialhub",
			Name:      "tokens_issued_total",
			Help:      "Signed tokens by class.",
		}, []string{"class"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialhub",
			Name:      "notifications_total",
			Help:      "Dispatched notifications by kind and result.",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(m.operations, m.tokens, m.notifications)
	return m
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveOperation counts one call of op.
func (m *Metrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) TokenIssued(class string) {
	if m == nil {
		return
	}
	m.tokens.WithLabelValues(class).Inc()
}

func (m *Metrics) NotificationSent(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result(err)).Inc()
}
