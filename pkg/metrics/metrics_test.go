package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", "200", 0.1)
		m.ObserveDBQuery("select", 0.1, nil)
		m.SetDBConnections(1, 1, 0)
		m.ObserveAppointmentCreated("staff")
		m.ObserveBookingConflict("appointment")
		m.ObserveTransition("upcoming", "checked-in")
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, "scheduling")

	m.ObserveAppointmentCreated("any")
	m.ObserveAppointmentCreated("any")
	m.ObserveBookingConflict("exclusion")
	m.ObserveDBQuery("insert", 0.01, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.appointmentsCreated.WithLabelValues("scheduling", "any")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingConflicts.WithLabelValues("scheduling", "exclusion")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("scheduling", "insert")))
}
