package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// SaveCustomizationRequest for POST /api/customizations/save and PUT /api/customizations/{id}
type SaveCustomizationRequest struct {
	UserID          string         `json:"userId"`
	ProjectName     string         `json:"projectName"`
	SelectedGenres  []string       `json:"selectedGenres,omitempty"`
	SelectedRegions []string       `json:"selectedRegions,omitempty"`
	SelectedItems   map[string]any `json:"selectedItems,omitempty"`
	CustomItems     map[string]any `json:"customItems,omitempty"`
	Settings        map[string]any `json:"settings,omitempty"`
}

func (req *SaveCustomizationRequest) validate() string {
	if req.UserID == "" {
		return `"userId" is required`
	}
	if req.ProjectName == "" {
		return `"projectName" is required`
	}
	return ""
}

func (req *SaveCustomizationRequest) toModel(id uuid.UUID) *models.UserCustomization {
	return &models.UserCustomization{
		ID:              id,
		UserID:          req.UserID,
		ProjectName:     req.ProjectName,
		SelectedGenres:  req.SelectedGenres,
		SelectedRegions: req.SelectedRegions,
		SelectedItems:   req.SelectedItems,
		CustomItems:     req.CustomItems,
		Settings:        req.Settings,
	}
}

// DeleteCustomizationResponse for DELETE /api/customizations/{id}
type DeleteCustomizationResponse struct {
	Deleted bool `json:"deleted"`
}

// CustomizationsHandler handles saved customization HTTP requests.
type CustomizationsHandler struct {
	customizationService services.CustomizationService
	logger               *zap.Logger
}

// NewCustomizationsHandler creates a new customizations handler.
func NewCustomizationsHandler(customizationService services.CustomizationService, logger *zap.Logger) *CustomizationsHandler {
	return &CustomizationsHandler{
		customizationService: customizationService,
		logger:               logger,
	}
}

// RegisterRoutes registers the customizations handler's routes on the given mux.
func (h *CustomizationsHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/customizations"

	mux.HandleFunc("POST "+base+"/save", h.Save)
	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PUT "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// Save handles POST /api/customizations/save
func (h *CustomizationsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveCustomizationRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg, h.logger)
		return
	}

	saved, err := h.customizationService.Save(r.Context(), req.toModel(uuid.Nil))
	if err != nil {
		handleServiceError(w, err, "Customization not found", "Failed to save customization", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    saved,
		Message: "Customization saved successfully",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/customizations
func (h *CustomizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "userId", "page", "limit")
	userID := q.required("userId")
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}

	result, err := h.customizationService.ListByUser(r.Context(), userID, page)
	if err != nil {
		handleServiceError(w, err, "Customization not found", "Failed to fetch customizations", h.logger)
		return
	}

	if err := writePage(w, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/customizations/{id}
func (h *CustomizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id", "Invalid customization ID format", h.logger)
	if !ok {
		return
	}

	customization, err := h.customizationService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "Customization not found", "Failed to fetch customization", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: customization}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/customizations/{id}
func (h *CustomizationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id", "Invalid customization ID format", h.logger)
	if !ok {
		return
	}

	var req SaveCustomizationRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg, h.logger)
		return
	}

	updated, err := h.customizationService.Update(r.Context(), req.toModel(id))
	if err != nil {
		handleServiceError(w, err, "Customization not found", "Failed to update customization", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    updated,
		Message: "Customization updated successfully",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/customizations/{id}
func (h *CustomizationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id", "Invalid customization ID format", h.logger)
	if !ok {
		return
	}

	if err := h.customizationService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err, "Customization not found", "Failed to delete customization", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    DeleteCustomizationResponse{Deleted: true},
		Message: "Customization deleted successfully",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
