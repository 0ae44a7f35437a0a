package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// TemplatesHandler handles content template HTTP requests.
type TemplatesHandler struct {
	templateService services.TemplateService
	logger          *zap.Logger
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(templateService services.TemplateService, logger *zap.Logger) *TemplatesHandler {
	return &TemplatesHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// RegisterRoutes registers the templates handler's routes on the given mux.
func (h *TemplatesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/templates", h.List)
	mux.HandleFunc("GET /api/templates/{itemId}", h.Bundle)
	mux.HandleFunc("GET /api/templates/{itemId}/examples", h.Examples)
}

// List handles GET /api/templates
func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "itemType", "templateType")
	filter := models.TemplateFilter{
		ItemType:     q.itemType("itemType"),
		TemplateType: models.TemplateType(q.str("templateType")),
	}
	if !q.ok(w, h.logger) {
		return
	}
	if filter.TemplateType != "" && !filter.TemplateType.IsValid() {
		writeError(w, http.StatusBadRequest, `"templateType" must be one of html, text, structured`, h.logger)
		return
	}

	templates, err := h.templateService.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err, "Template not found", "Failed to fetch templates", h.logger)
		return
	}
	if templates == nil {
		templates = []*models.ContentTemplate{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: templates}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Bundle handles GET /api/templates/{itemId}
func (h *TemplatesHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseUUID(w, r, "itemId", "Invalid item ID format", h.logger)
	if !ok {
		return
	}

	bundle, err := h.templateService.Bundle(r.Context(), itemID)
	if err != nil {
		handleServiceError(w, err, "Template not found", "Failed to fetch templates", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: bundle}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Examples handles GET /api/templates/{itemId}/examples
func (h *TemplatesHandler) Examples(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseUUID(w, r, "itemId", "Invalid item ID format", h.logger)
	if !ok {
		return
	}

	examples, err := h.templateService.Examples(r.Context(), itemID)
	if err != nil {
		handleServiceError(w, err, "Template not found", "Failed to fetch content examples", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: examples}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
