package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayursutra/panchakarma-platform/internal/inventory"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// InventoryHandler serves the admin stock endpoints.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *logging.Logger
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(svc *inventory.Service, logger *logging.Logger) *InventoryHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns all stock, seeding the starter items on first use.
// GET /api/admin/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("inventory list failed", "error", err)
		jsonError(w, "inventory list failed", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []inventory.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Add registers a new item.
// POST /api/admin/inventory
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item inventory.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.svc.Add(r.Context(), &item); err != nil {
		if errors.Is(err, inventory.ErrInvalidName) || errors.Is(err, inventory.ErrInvalidType) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("inventory add failed", "error", err)
		jsonError(w, "inventory add failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type stockAdjustment struct {
	Amount int `json:"amount"`
}

// Consume deducts stock for an item.
// POST /api/admin/inventory/{itemID}/consume
func (h *InventoryHandler) Consume(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.svc.Consume)
}

// Restock adds stock for an item.
// POST /api/admin/inventory/{itemID}/restock
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.svc.Restock)
}

func (h *InventoryHandler) adjust(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID, amount int) (*inventory.Item, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		jsonError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var req stockAdjustment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	item, err := op(r.Context(), id, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrInvalidAmount):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, inventory.ErrNotFound):
			jsonError(w, "item not found", http.StatusNotFound)
		default:
			h.logger.Error("stock adjustment failed", "error", err, "item_id", id)
			jsonError(w, "stock adjustment failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, item)
}
