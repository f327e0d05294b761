package metrics

import "github.com/prometheus/client_golang/prometheus"

// PlatformMetrics exposes counters for booking and notification flows.
type PlatformMetrics struct {
	bookingsTotal  *prometheus.CounterVec
	dispatchTotal  *prometheus.CounterVec
	remindersTotal *prometheus.CounterVec
}

func NewPlatformMetrics(reg prometheus.Registerer) *PlatformMetrics {
	m := &PlatformMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayursutra",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayursutra",
			Subsystem: "notifications",
			Name:      "dispatch_total",
			Help:      "Total SMS and voice dispatches by channel and status",
		}, []string{"channel", "status"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ayursutra",
			Subsystem: "notifications",
			Name:      "reminders_total",
			Help:      "Total scheduled reminder dispatches by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.dispatchTotal, m.remindersTotal)
	return m
}

func (m *PlatformMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *PlatformMetrics) ObserveDispatch(channel, status string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(channel, status).Inc()
}

func (m *PlatformMetrics) ObserveReminder(outcome string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(outcome).Inc()
}
