package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/feedback"
	"github.com/ayursutra/panchakarma-platform/internal/inventory"
)

const centerDisplayName = "Ayursutra Panchakarma Center"

// PDFService renders the downloadable documents: booking receipts, patient
// medical reports, and the admin system report.
type PDFService struct{}

// NewPDFService creates a PDF renderer.
func NewPDFService() *PDFService {
	return &PDFService{}
}

// BookingReceipt renders a one-page receipt for a confirmed appointment.
func (s *PDFService) BookingReceipt(appt *appointments.Appointment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Green band for confirmations.
	pdf.SetFillColor(46, 125, 50)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(10, 10)
	pdf.CellFormat(190, 10, centerDisplayName, "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 40)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(190, 8, "Booking Receipt", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Booking ID", appt.ID.String()},
		{"Patient", appt.PatientEmail},
		{"Therapy", appt.TherapyID},
		{"Date", appt.Date.Format("January 2, 2006")},
		{"Center", appt.CenterName},
		{"Room", appt.RoomName},
		{"Therapist", appt.TherapistName},
		{"Status", appt.Status},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(140, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(190, 6,
		"Please arrive 30 minutes early and follow the pre-procedure instructions sent by SMS.",
		"", 1, "L", false, 0, "")

	return render(pdf, "booking receipt")
}

// MedicalReport renders a patient's treatment history with their feedback.
func (s *PDFService) MedicalReport(patientEmail string, history []appointments.Appointment, entries []feedback.Entry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Blue band for medical documents.
	pdf.SetFillColor(21, 101, 192)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(10, 10)
	pdf.CellFormat(190, 10, centerDisplayName, "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 40)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(190, 8, "Medical Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(190, 8, fmt.Sprintf("Patient: %s", patientEmail), "", 1, "L", false, 0, "")
	pdf.CellFormat(190, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("January 2, 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(190, 8, "Treatment History", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(232, 234, 246)
	pdf.CellFormat(40, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Therapy", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Therapist", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Status", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, appt := range history {
		pdf.CellFormat(40, 8, appt.Date.Format(time.DateOnly), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, appt.TherapyID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, appt.TherapistName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, appt.Status, "1", 1, "L", false, 0, "")
	}
	if len(history) == 0 {
		pdf.CellFormat(190, 8, "No treatments on record.", "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(190, 8, "Reported Feedback", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Therapy", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Pain (1-10)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(85, 8, "Notes", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, e := range entries {
		pdf.CellFormat(40, 8, e.CreatedAt.Format(time.DateOnly), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, e.TherapyID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", e.PainLevel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(85, 8, e.Notes, "1", 1, "L", false, 0, "")
	}
	if len(entries) == 0 {
		pdf.CellFormat(190, 8, "No feedback on record.", "1", 1, "L", false, 0, "")
	}

	return render(pdf, "medical report")
}

// SystemSnapshot aggregates the figures shown on the admin system report.
type SystemSnapshot struct {
	Date             time.Time
	TotalBookings    int
	OccupancyPercent int
	Inventory        []inventory.Item
}

// SystemReport renders the admin operations summary for one day.
func (s *PDFService) SystemReport(snap SystemSnapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFillColor(69, 39, 116)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(10, 10)
	pdf.CellFormat(190, 10, centerDisplayName, "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 40)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(190, 8, "System Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(190, 8, fmt.Sprintf("Date: %s", snap.Date.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(190, 8, fmt.Sprintf("Bookings: %d", snap.TotalBookings), "", 1, "L", false, 0, "")
	pdf.CellFormat(190, 8, fmt.Sprintf("Occupancy: %d%%", snap.OccupancyPercent), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(190, 8, "Inventory", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(237, 231, 246)
	pdf.CellFormat(70, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Stock", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Threshold", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range snap.Inventory {
		pdf.CellFormat(70, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, item.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d %s", item.StockLevel, item.Unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d %s", item.LowStockThreshold, item.Unit), "1", 1, "R", false, 0, "")
	}

	return render(pdf, "system report")
}

func render(pdf *gofpdf.Fpdf, kind string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("reports: render %s: %w", kind, err)
	}
	return buf.Bytes(), nil
}
