package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/centers"
	"github.com/ayursutra/panchakarma-platform/internal/http/middleware"
	"github.com/ayursutra/panchakarma-platform/internal/incidents"
	"github.com/ayursutra/panchakarma-platform/internal/scheduling"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// EmailCopier sends the patient an email copy of their booking.
type EmailCopier interface {
	SendBookingConfirmation(ctx context.Context, appt *appointments.Appointment) error
}

// BookingHandler serves appointment booking, listing, availability, and the
// adverse-reaction flow.
type BookingHandler struct {
	scheduler *scheduling.Service
	appts     *appointments.Store
	centers   *centers.Store
	users     *users.Store
	incidents *incidents.Service
	emails    EmailCopier
	logger    *logging.Logger
}

// NewBookingHandler creates a booking handler. emails may be nil.
func NewBookingHandler(
	scheduler *scheduling.Service,
	appts *appointments.Store,
	centerStore *centers.Store,
	userStore *users.Store,
	incidentSvc *incidents.Service,
	emails EmailCopier,
	logger *logging.Logger,
) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{
		scheduler: scheduler,
		appts:     appts,
		centers:   centerStore,
		users:     userStore,
		incidents: incidentSvc,
		emails:    emails,
		logger:    logger,
	}
}

// Book allocates a room and therapist for the caller and confirms the
// appointment.
// POST /api/appointments
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req appointments.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("booking: account load failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "account lookup failed", http.StatusInternalServerError)
		return
	}
	req.PatientID = account.ID
	req.PatientEmail = account.Email
	req.PatientPhone = account.Phone

	if req.CenterID != uuid.Nil && req.CenterName == "" {
		center, err := h.centers.GetByID(r.Context(), req.CenterID)
		if err != nil {
			if errors.Is(err, centers.ErrNotFound) {
				jsonError(w, "unknown center", http.StatusBadRequest)
				return
			}
			h.logger.Error("booking: center load failed", "error", err, "center_id", req.CenterID)
			jsonError(w, "center lookup failed", http.StatusInternalServerError)
			return
		}
		req.CenterName = center.Name
	}

	appt, err := h.scheduler.Book(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrNoRoomAvailable):
			jsonError(w, "no rooms available on the selected date", http.StatusConflict)
		case errors.Is(err, appointments.ErrMissingTherapy),
			errors.Is(err, appointments.ErrMissingDate),
			errors.Is(err, appointments.ErrMissingCenter),
			errors.Is(err, appointments.ErrMissingPatient):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("booking failed", "error", err)
			jsonError(w, "booking failed", http.StatusInternalServerError)
		}
		return
	}

	if h.emails != nil {
		if err := h.emails.SendBookingConfirmation(r.Context(), appt); err != nil {
			h.logger.Warn("booking email copy failed", "appointment_id", appt.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, appt)
}

// ListMine returns the caller's appointments.
// GET /api/appointments/mine
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	result, err := h.appts.ListByPatient(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("appointment list failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "appointment list failed", http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []appointments.Appointment{}
	}
	writeJSON(w, http.StatusOK, result)
}

// ListByDate returns all appointments on a day for the practitioner view.
// GET /api/appointments/date/{date}
func (h *BookingHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	day, err := appointments.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.appts.ListByDate(r.Context(), day)
	if err != nil {
		h.logger.Error("appointment day list failed", "error", err)
		jsonError(w, "appointment list failed", http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []appointments.Appointment{}
	}
	writeJSON(w, http.StatusOK, result)
}

// Availability reports whether a room is fully free on a day.
// GET /api/availability/{roomID}/{date}
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if _, ok := scheduling.RoomByID(roomID); !ok {
		jsonError(w, "unknown room", http.StatusNotFound)
		return
	}
	day, err := appointments.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	free, err := h.scheduler.CheckRoomAvailability(r.Context(), roomID, day)
	if err != nil {
		h.logger.Error("availability check failed", "error", err, "room_id", roomID)
		jsonError(w, "availability check failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room_id": roomID, "available": free})
}

// UpdateStatus moves an appointment through its normal lifecycle.
// PUT /api/appointments/{appointmentID}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		jsonError(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case appointments.StatusScheduled, appointments.StatusInProgress, appointments.StatusCompleted:
	default:
		jsonError(w, "status must be Scheduled, In Progress, or Completed", http.StatusBadRequest)
		return
	}

	if err := h.appts.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			jsonError(w, "appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("status update failed", "error", err, "appointment_id", id)
		jsonError(w, "status update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// ReportReaction files an adverse reaction and transitions the appointment.
// POST /api/appointments/{appointmentID}/reaction
func (h *BookingHandler) ReportReaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		jsonError(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var req incidents.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = id

	inc, err := h.incidents.Report(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, incidents.ErrUnknownAction), errors.Is(err, incidents.ErrMissingReaction):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, appointments.ErrNotFound):
			jsonError(w, "appointment not found", http.StatusNotFound)
		default:
			h.logger.Error("reaction report failed", "error", err, "appointment_id", id)
			jsonError(w, "reaction report failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, inc)
}
