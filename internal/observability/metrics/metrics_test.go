package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPlatformMetricsObserve(t *testing.T) {
	m := NewPlatformMetrics(prometheus.NewRegistry())
	m.ObserveBooking("booked")
	m.ObserveBooking("no_room")
	m.ObserveDispatch("sms", "sent")
	m.ObserveDispatch("voice", "failed")
	m.ObserveReminder("sent")
}

func TestPlatformMetricsNilSafe(t *testing.T) {
	var m *PlatformMetrics
	m.ObserveBooking("booked")
	m.ObserveDispatch("sms", "sent")
	m.ObserveReminder("failed")
}
