package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayursutra/panchakarma-platform/internal/appointments"
	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/scheduling"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

const defaultLogLimit = 50

// DashboardHandler serves the admin occupancy and audit views.
type DashboardHandler struct {
	scheduler *scheduling.Service
	logs      *notifications.Store
	logger    *logging.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(scheduler *scheduling.Service, logs *notifications.Store, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{scheduler: scheduler, logs: logs, logger: logger}
}

// Occupancy returns the day's booked percentage of total capacity.
// GET /api/admin/occupancy/{date}
func (h *DashboardHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	day, err := appointments.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	pct, err := h.scheduler.CenterOccupancy(r.Context(), day)
	if err != nil {
		h.logger.Error("occupancy lookup failed", "error", err)
		jsonError(w, "occupancy lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":              day.Format(time.DateOnly),
		"occupancy_percent": pct,
		"capacity":          scheduling.TotalDailyCapacity(),
	})
}

// DispatchLogs returns the most recent SMS/voice audit rows.
// GET /api/admin/sms-logs?limit=N
func (h *DashboardHandler) DispatchLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := h.logs.ListRecentLogs(r.Context(), limit)
	if err != nil {
		h.logger.Error("dispatch log list failed", "error", err)
		jsonError(w, "dispatch log list failed", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []notifications.DispatchLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
