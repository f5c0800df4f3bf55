// Package metrics exposes prometheus counters for the lease workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "residence"

type Metrics struct {
	RequestsCreated        *prometheus.CounterVec
	Transitions            *prometheus.CounterVec
	GuestAccountsCreated   prometheus.Counter
	NotificationsDelivered *prometheus.CounterVec
}

// New creates the workflow collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lease",
			Name:      "requests_created_total",
			Help:      "Lease requests created, by type and initial status.",
		}, []string{"type", "status"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lease",
			Name:      "transitions_total",
			Help:      "Lease request status changes attempted, by target status and outcome.",
		}, []string{"to", "outcome"}),
		GuestAccountsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lease",
			Name:      "guest_accounts_created_total",
			Help:      "Accounts provisioned for guest requesters on approval.",
		}),
		NotificationsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "delivered_total",
			Help:      "Workflow notifications handed to the sink, by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsCreated, m.Transitions, m.GuestAccountsCreated, m.NotificationsDelivered)
	}
	return m
}

// Recording methods are no-ops on a nil *Metrics.
func (m *Metrics) RequestCreated(requestType, status string) {
	if m == nil {
		return
	}
	m.RequestsCreated.WithLabelValues(requestType, status).Inc()
}

func (m *Metrics) Transition(to string, err error) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to, outcome(err)).Inc()
}

func (m *Metrics) GuestAccountCreated() {
	if m == nil {
		return
	}
	m.GuestAccountsCreated.Inc()
}

func (m *Metrics) Notification(eventType string, err error) {
	if m == nil {
		return
	}
	m.NotificationsDelivered.WithLabelValues(eventType, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
