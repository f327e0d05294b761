package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayursutra/panchakarma-platform/internal/catalog"
)

// CatalogHandler serves the read-only therapy catalog.
type CatalogHandler struct{}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListTherapies returns every therapy with its guidance lists.
// GET /api/therapies
func (h *CatalogHandler) ListTherapies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.List())
}

// GetTherapy returns one therapy by id.
// GET /api/therapies/{therapyID}
func (h *CatalogHandler) GetTherapy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "therapyID")
	therapy, ok := catalog.ByID(id)
	if !ok {
		jsonError(w, "unknown therapy", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, therapy)
}
