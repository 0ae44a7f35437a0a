package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// GenerateItemsRequest for POST /api/items/generate
type GenerateItemsRequest struct {
	Genres            []string `json:"genres"`
	Region            string   `json:"region,omitempty"`
	SEOOptimized      bool     `json:"seoOptimized"`
	IncludeCompliance bool     `json:"includeCompliance"`
}

// ItemsHandler handles checklist item HTTP requests.
type ItemsHandler struct {
	checklistService services.ChecklistService
	logger           *zap.Logger
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(checklistService services.ChecklistService, logger *zap.Logger) *ItemsHandler {
	return &ItemsHandler{
		checklistService: checklistService,
		logger:           logger,
	}
}

// RegisterRoutes registers the items handler's routes on the given mux.
func (h *ItemsHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/items"

	mux.HandleFunc("POST "+base+"/generate", h.Generate)
	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("GET "+base+"/common", h.ListCommon)
	mux.HandleFunc("GET "+base+"/compliance", h.ListCompliance)
	mux.HandleFunc("GET "+base+"/genre/{genreId}", h.ListByGenre)
	mux.HandleFunc("GET "+base+"/region/{regionId}", h.ListByRegion)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
}

// Generate handles POST /api/items/generate
func (h *ItemsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateItemsRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if len(req.Genres) == 0 {
		writeError(w, http.StatusBadRequest, `"genres" must contain at least 1 item`, h.logger)
		return
	}

	checklist, err := h.checklistService.Generate(r.Context(), models.GenerateChecklistInput{
		Genres:            req.Genres,
		Region:            req.Region,
		SEOOptimized:      req.SEOOptimized,
		IncludeCompliance: req.IncludeCompliance,
	})
	if err != nil {
		handleServiceError(w, err, "Item not found", "Failed to generate items", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    checklist,
		Message: "Items generated successfully",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/items
// The type parameter selects the item table; genre_specific and
// region_specific listings also need the genre or region id.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "type", "genre", "region", "priority", "page", "limit")
	filter := repositories.ItemFilter{
		Type:     q.itemType("type"),
		Priority: q.priority(),
	}
	genreID := q.uuid("genre")
	regionID := q.uuid("region")
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	switch filter.Type {
	case models.ItemTypeGenreSpecific:
		filter.ScopeID = genreID
	case models.ItemTypeRegionSpecific:
		filter.ScopeID = regionID
	}

	h.list(w, r, filter, page, "Failed to fetch items")
}

// ListCommon handles GET /api/items/common
func (h *ItemsHandler) ListCommon(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "priority", "page", "limit")
	filter := repositories.ItemFilter{Type: models.ItemTypeCommon, Priority: q.priority()}
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	h.list(w, r, filter, page, "Failed to fetch common items")
}

// ListCompliance handles GET /api/items/compliance
func (h *ItemsHandler) ListCompliance(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "priority", "page", "limit")
	filter := repositories.ItemFilter{Type: models.ItemTypeCompliance, Priority: q.priority()}
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	h.list(w, r, filter, page, "Failed to fetch compliance items")
}

// ListByGenre handles GET /api/items/genre/{genreId}
func (h *ItemsHandler) ListByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, ok := parseUUID(w, r, "genreId", "Invalid genre ID format", h.logger)
	if !ok {
		return
	}

	q := newQuery(r, "priority", "page", "limit")
	filter := repositories.ItemFilter{
		Type:     models.ItemTypeGenreSpecific,
		ScopeID:  &genreID,
		Priority: q.priority(),
	}
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	h.list(w, r, filter, page, "Failed to fetch genre-specific items")
}

// ListByRegion handles GET /api/items/region/{regionId}
func (h *ItemsHandler) ListByRegion(w http.ResponseWriter, r *http.Request) {
	regionID, ok := parseUUID(w, r, "regionId", "Invalid region ID format", h.logger)
	if !ok {
		return
	}

	q := newQuery(r, "priority", "page", "limit")
	filter := repositories.ItemFilter{
		Type:     models.ItemTypeRegionSpecific,
		ScopeID:  &regionID,
		Priority: q.priority(),
	}
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	h.list(w, r, filter, page, "Failed to fetch region-specific items")
}

func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request, filter repositories.ItemFilter, req models.PageRequest, failMsg string) {
	page, err := h.checklistService.ListItems(r.Context(), filter, req)
	if err != nil {
		handleServiceError(w, err, "Item not found", failMsg, h.logger)
		return
	}

	if err := writePage(w, page); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/items/{id}
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseUUID(w, r, "id", "Invalid item ID format", h.logger)
	if !ok {
		return
	}

	item, err := h.checklistService.GetItem(r.Context(), itemID)
	if err != nil {
		handleServiceError(w, err, "Item not found", "Failed to fetch item", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: item}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
