package reports

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/feedback"
	"github.com/ayursutra/panchakarma-platform/internal/inventory"
)

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:            uuid.New(),
		PatientEmail:  "priya@example.com",
		TherapyID:     "virechana",
		Date:          time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CenterName:    "Ayursutra Delhi",
		RoomName:      "Dhanvantari Hall A",
		TherapistName: "Therapist Maya",
		Status:        appointments.StatusScheduled,
	}
}

func assertPDF(t *testing.T, data []byte) {
	t.Helper()
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBookingReceipt(t *testing.T) {
	svc := NewPDFService()
	data, err := svc.BookingReceipt(sampleAppointment())
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestMedicalReportWithHistory(t *testing.T) {
	svc := NewPDFService()
	history := []appointments.Appointment{*sampleAppointment()}
	entries := []feedback.Entry{{
		ID:        uuid.New(),
		TherapyID: "virechana",
		PainLevel: 4,
		Notes:     "mild cramping",
		CreatedAt: time.Now().UTC(),
	}}

	data, err := svc.MedicalReport("priya@example.com", history, entries)
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestMedicalReportEmptyHistory(t *testing.T) {
	svc := NewPDFService()
	data, err := svc.MedicalReport("new@example.com", nil, nil)
	require.NoError(t, err)
	assertPDF(t, data)
}

func TestSystemReport(t *testing.T) {
	svc := NewPDFService()
	data, err := svc.SystemReport(SystemSnapshot{
		Date:             time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TotalBookings:    7,
		OccupancyPercent: 58,
		Inventory: []inventory.Item{
			{Name: "Mahanarayan Taila", Type: inventory.TypeOil, StockLevel: 5000, Unit: "ml", LowStockThreshold: 1000},
		},
	})
	require.NoError(t, err)
	assertPDF(t, data)
}
