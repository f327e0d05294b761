package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// Service composes and sends the platform's emails: booking confirmation
// copies to patients and operational alerts to admins. SMS remains the
// primary channel; email is the paper trail.
type Service struct {
	email       EmailSender
	adminEmails []string
	logger      *logging.Logger
}

// NewService creates a notify service. A nil sender disables email; all
// methods become logged no-ops.
func NewService(email EmailSender, adminEmails []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, adminEmails: adminEmails, logger: logger}
}

// SendBookingConfirmation emails the patient a copy of their booking details.
func (s *Service) SendBookingConfirmation(ctx context.Context, appt *appointments.Appointment) error {
	if s.email == nil {
		s.logger.Debug("notify: email disabled, skipping booking confirmation", "appointment_id", appt.ID)
		return nil
	}
	if appt.PatientEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Namaste,\n\nYour Panchakarma booking is confirmed.\n\n"+
			"Therapy: %s\nDate: %s\nCenter: %s\nRoom: %s\nTherapist: %s\n\n"+
			"Please arrive 30 minutes early and follow the pre-procedure instructions sent by SMS.\n\n"+
			"Ayursutra Center",
		appt.TherapyID,
		appt.Date.Format("January 2, 2006"),
		appt.CenterName,
		appt.RoomName,
		appt.TherapistName,
	)

	err := s.email.Send(ctx, EmailMessage{
		To:      appt.PatientEmail,
		Subject: fmt.Sprintf("Booking Confirmed: %s on %s", appt.TherapyID, appt.Date.Format("Jan 2")),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}
	return nil
}

// SendLowStockAlert emails every configured admin that an item crossed its
// threshold. Implements the inventory alerter.
func (s *Service) SendLowStockAlert(ctx context.Context, itemName string, stockLevel int, unit string) error {
	if s.email == nil || len(s.adminEmails) == 0 {
		s.logger.Debug("notify: email disabled, skipping low stock alert", "item", itemName)
		return nil
	}

	body := fmt.Sprintf(
		"Inventory alert.\n\n%s is down to %d %s, at or below its restock threshold.\n\n"+
			"Restock from the admin dashboard.",
		itemName, stockLevel, unit,
	)

	var failed []string
	for _, admin := range s.adminEmails {
		admin = strings.TrimSpace(admin)
		if admin == "" {
			continue
		}
		err := s.email.Send(ctx, EmailMessage{
			To:      admin,
			Subject: fmt.Sprintf("Low Stock: %s", itemName),
			Body:    body,
		})
		if err != nil {
			s.logger.Error("notify: low stock alert failed", "to", admin, "error", err)
			failed = append(failed, admin)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("notify: low stock alert failed for %s", strings.Join(failed, ", "))
	}
	return nil
}
