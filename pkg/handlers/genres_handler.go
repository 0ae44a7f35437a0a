package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/models"
	"github.com/lpcraft/checklist-engine/pkg/repositories"
	"github.com/lpcraft/checklist-engine/pkg/services"
)

// GenresHandler handles genre catalog HTTP requests.
type GenresHandler struct {
	genreService services.GenreService
	logger       *zap.Logger
}

// NewGenresHandler creates a new genres handler.
func NewGenresHandler(genreService services.GenreService, logger *zap.Logger) *GenresHandler {
	return &GenresHandler{
		genreService: genreService,
		logger:       logger,
	}
}

// RegisterRoutes registers the genres handler's routes on the given mux.
func (h *GenresHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/genres", h.List)
	mux.HandleFunc("GET /api/genres/{id}", h.Get)
	mux.HandleFunc("GET /api/genres/{id}/items", h.Items)
}

// List handles GET /api/genres
func (h *GenresHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r, "category", "page", "limit")
	category := models.GenreCategory(q.str("category"))
	page := q.page()
	if !q.ok(w, h.logger) {
		return
	}
	if category != "" && !category.IsValid() {
		writeError(w, http.StatusBadRequest, `"category" must be one of medical, beauty, fitness, general`, h.logger)
		return
	}

	result, err := h.genreService.List(r.Context(), repositories.GenreFilter{Category: category}, page)
	if err != nil {
		handleServiceError(w, err, "Genre not found", "Failed to fetch genres", h.logger)
		return
	}

	if err := writePage(w, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/genres/{id}
func (h *GenresHandler) Get(w http.ResponseWriter, r *http.Request) {
	genreID, ok := parseUUID(w, r, "id", "Invalid genre ID format", h.logger)
	if !ok {
		return
	}

	genre, err := h.genreService.Get(r.Context(), genreID)
	if err != nil {
		handleServiceError(w, err, "Genre not found", "Failed to fetch genre", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: genre}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Items handles GET /api/genres/{id}/items
func (h *GenresHandler) Items(w http.ResponseWriter, r *http.Request) {
	genreID, ok := parseUUID(w, r, "id", "Invalid genre ID format", h.logger)
	if !ok {
		return
	}

	items, err := h.genreService.Items(r.Context(), genreID)
	if err != nil {
		handleServiceError(w, err, "Genre not found", "Failed to fetch genre items", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: items}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
