package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayursutra/panchakarma-platform/internal/feedback"
	"github.com/ayursutra/panchakarma-platform/internal/http/middleware"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// FeedbackHandler serves feedback submission, history, and the practitioner
// live surfaces.
type FeedbackHandler struct {
	svc    *feedback.Service
	hub    *feedback.Hub
	users  *users.Store
	logger *logging.Logger
}

// NewFeedbackHandler creates a feedback handler. hub may be nil.
func NewFeedbackHandler(svc *feedback.Service, hub *feedback.Hub, userStore *users.Store, logger *logging.Logger) *FeedbackHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &FeedbackHandler{svc: svc, hub: hub, users: userStore, logger: logger}
}

// Submit records one post-session feedback entry for the caller.
// POST /api/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var entry feedback.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("feedback: account load failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "account lookup failed", http.StatusInternalServerError)
		return
	}
	entry.PatientEmail = account.Email

	if err := h.svc.Submit(r.Context(), &entry); err != nil {
		if errors.Is(err, feedback.ErrInvalidPainLevel) || errors.Is(err, feedback.ErrMissingAppointment) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("feedback submit failed", "error", err)
		jsonError(w, "feedback submit failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// History returns the caller's feedback, newest first.
// GET /api/feedback/mine
func (h *FeedbackHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	account, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("feedback: account load failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "account lookup failed", http.StatusInternalServerError)
		return
	}

	entries, err := h.svc.HistoryForPatient(r.Context(), account.Email)
	if err != nil {
		h.logger.Error("feedback history failed", "error", err)
		jsonError(w, "feedback history failed", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []feedback.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Live returns the recent entries from the capped feed for dashboard polling.
// GET /api/feedback/live
func (h *FeedbackHandler) Live(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Live(r.Context())
	if err != nil {
		h.logger.Error("live feed read failed", "error", err)
		jsonError(w, "live feed unavailable", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []feedback.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Stream upgrades to a websocket and pushes entries as they arrive.
// GET /api/feedback/stream
func (h *FeedbackHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		jsonError(w, "live stream disabled", http.StatusServiceUnavailable)
		return
	}
	h.hub.ServeHTTP(w, r)
}
