package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/residence-backend/internal/metrics"
)

func TestMetrics_CountersAreRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.RequestCreated("rent", "pending_owner")
	m.RequestCreated("rent", "pending_owner")
	m.Transition("approved", nil)
	m.Transition("approved", errors.New("stale"))
	m.GuestAccountCreated()

	families, err := reg.Gather()
	require.NoError(t, err)

	totals := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			totals[family.GetName()] += metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, 2.0, totals["residence_lease_requests_created_total"])
	assert.Equal(t, 2.0, totals["residence_lease_transitions_total"])
	assert.Equal(t, 1.0, totals["residence_lease_guest_accounts_created_total"])
}

func TestNew_WithoutRegistererDoesNotPanic(t *testing.T) {
	m := metrics.New(nil)
	assert.NotPanics(t, func() { m.Notification("lease_request.approved", nil) })
}
