package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lpcraft/checklist-engine/pkg/models"
)

// ApiResponse is the envelope of every non-paginated success response.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// ApiError is the envelope of every failure response.
type ApiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PaginatedResponse is the envelope of every listing response.
type PaginatedResponse struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// ErrorResponse writes a {success:false, error} response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, ApiError{Success: false, Error: message})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writePage writes one page of a listing in the paginated envelope.
func writePage[T any](w http.ResponseWriter, page *models.Page[T]) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Success:    true,
		Data:       page.Data,
		Pagination: page.Pagination,
	})
}
