package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ayursutra/panchakarma-platform/internal/centers"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// CentersHandler serves center discovery and admin registration.
type CentersHandler struct {
	store  *centers.Store
	logger *logging.Logger
}

// NewCentersHandler creates a centers handler.
func NewCentersHandler(store *centers.Store, logger *logging.Logger) *CentersHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CentersHandler{store: store, logger: logger}
}

// List returns centers sorted by distance from the caller. Missing or
// malformed coordinates fall back to the default service location.
// GET /api/centers?lat=..&lng=..
func (h *CentersHandler) List(w http.ResponseWriter, r *http.Request) {
	lat := parseCoord(r.URL.Query().Get("lat"))
	lng := parseCoord(r.URL.Query().Get("lng"))

	result, err := h.store.ListByProximity(r.Context(), lat, lng)
	if err != nil {
		h.logger.Error("center list failed", "error", err)
		jsonError(w, "center lookup failed", http.StatusInternalServerError)
		return
	}
	if result == nil {
		result = []centers.Center{}
	}
	writeJSON(w, http.StatusOK, result)
}

// Register adds a new center.
// POST /api/admin/centers
func (h *CentersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var c centers.Center
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.store.Register(r.Context(), &c); err != nil {
		if errors.Is(err, centers.ErrMissingName) || errors.Is(err, centers.ErrMissingAddress) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("center registration failed", "error", err)
		jsonError(w, "center registration failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func parseCoord(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
