package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/repositories"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// RegionsHandler handles region catalog HTTP requests.
type RegionsHandler struct {
	regionService services.RegionService
	logger        *zap.Logger
}

// NewRegionsHandler creates a new regions handler.
func NewRegionsHandler(regionService services.RegionService, logger *zap.Logger) *RegionsHandler {
	return &RegionsHandler{
		regionService: regionService,
		logger:        logger,
	}
}

// RegisterRoutes registers the regions handler's routes on the given mux.
func (h *RegionsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/regions", h.List)
	mux.HandleFunc("GET /api/regions/{id}", h.Get)
	mux.HandleFunc("GET /api/regions/{id}/items", h.Items)
}

// List handles GET /api/regions
func (h *RegionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "prefecture", "page", "limit")
	prefecture := q.str("prefecture")
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	result, err := h.regionService.List(r.Context(), repositories.RegionFilter{Prefecture: prefecture}, page)
	if err != nil {
		handleServiceError(w, err, "Region not found", "Failed to fetch regions", h.logger)
		return
	}

	if err := writePage(w, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/regions/{id}
func (h *RegionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	regionID, ok := parseUUID(w, r, "id", "Invalid region ID format", h.logger)
	if !ok {
		return
	}

	region, err := h.regionService.Get(r.Context(), regionID)
	if err != nil {
		handleServiceError(w, err, "Region not found", "Failed to fetch region", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: region}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Items handles GET /api/regions/{id}/items
func (h *RegionsHandler) Items(w http.ResponseWriter, r *http.Request) {
	regionID, ok := parseUUID(w, r, "id", "Invalid region ID format", h.logger)
	if !ok {
		return
	}

	items, err := h.regionService.Items(r.Context(), regionID)
	if err != nil {
		handleServiceError(w, err, "Region not found", "Failed to fetch region items", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
