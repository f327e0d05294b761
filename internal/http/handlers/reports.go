package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/feedback"
	"github.com/ayursutra/panchakarma-platform/internal/http/middleware"
	"github.com/ayursutra/panchakarma-platform/internal/inventory"
	"github.com/ayursutra/panchakarma-platform/internal/reports"
	"github.com/ayursutra/panchakarma-platform/internal/scheduling"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// ReportsHandler streams the downloadable PDF documents.
type ReportsHandler struct {
	pdf       *reports.PDFService
	appts     *appointments.Store
	feedback  *feedback.Store
	users     *users.Store
	scheduler *scheduling.Service
	inventory *inventory.Service
	logger    *logging.Logger
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(
	pdf *reports.PDFService,
	appts *appointments.Store,
	feedbackStore *feedback.Store,
	userStore *users.Store,
	scheduler *scheduling.Service,
	inventorySvc *inventory.Service,
	logger *logging.Logger,
) *ReportsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportsHandler{
		pdf:       pdf,
		appts:     appts,
		feedback:  feedbackStore,
		users:     userStore,
		scheduler: scheduler,
		inventory: inventorySvc,
		logger:    logger,
	}
}

// Receipt streams the booking receipt for one appointment. Patients can only
// fetch their own receipts.
// GET /api/reports/receipt/{appointmentID}
func (h *ReportsHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		jsonError(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	appt, err := h.appts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			jsonError(w, "appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("receipt: appointment load failed", "error", err, "appointment_id", id)
		jsonError(w, "receipt failed", http.StatusInternalServerError)
		return
	}
	if identity.Role == users.RolePatient && appt.PatientID != identity.UserID {
		jsonError(w, "not your appointment", http.StatusForbidden)
		return
	}

	data, err := h.pdf.BookingReceipt(appt)
	if err != nil {
		h.logger.Error("receipt render failed", "error", err, "appointment_id", id)
		jsonError(w, "receipt failed", http.StatusInternalServerError)
		return
	}
	servePDF(w, fmt.Sprintf("receipt-%s.pdf", appt.ID), data)
}

// Medical streams the caller's medical report.
// GET /api/reports/medical
func (h *ReportsHandler) Medical(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	account, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("medical report: account load failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}

	history, err := h.appts.ListByPatient(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("medical report: history load failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}
	entries, err := h.feedback.ListByPatient(r.Context(), account.Email)
	if err != nil {
		h.logger.Error("medical report: feedback load failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}

	data, err := h.pdf.MedicalReport(account.Email, history, entries)
	if err != nil {
		h.logger.Error("medical report render failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}
	servePDF(w, "medical-report.pdf", data)
}

// System streams the admin operations summary for a day.
// GET /api/admin/reports/system/{date}
func (h *ReportsHandler) System(w http.ResponseWriter, r *http.Request) {
	day, err := appointments.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	booked, err := h.appts.ListByDate(r.Context(), day)
	if err != nil {
		h.logger.Error("system report: bookings load failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}
	pct, err := h.scheduler.CenterOccupancy(r.Context(), day)
	if err != nil {
		h.logger.Error("system report: occupancy failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}
	stock, err := h.inventory.List(r.Context())
	if err != nil {
		h.logger.Error("system report: inventory load failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}

	data, err := h.pdf.SystemReport(reports.SystemSnapshot{
		Date:             day,
		TotalBookings:    len(booked),
		OccupancyPercent: pct,
		Inventory:        stock,
	})
	if err != nil {
		h.logger.Error("system report render failed", "error", err)
		jsonError(w, "report failed", http.StatusInternalServerError)
		return
	}
	servePDF(w, fmt.Sprintf("system-report-%s.pdf", day.Format(time.DateOnly)), data)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
