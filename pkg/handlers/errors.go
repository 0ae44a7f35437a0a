package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/logging"
)

// writeError writes an error envelope and logs when the write itself fails.
func writeError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	if err := ErrorResponse(w, status, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// handleServiceError classifies err and writes the matching response.
// Store failures are logged with credentials scrubbed; the caller only sees failMsg.
func handleServiceError(w http.ResponseWriter, err error, notFoundMsg, failMsg string, logger *zap.Logger) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, validationMessage(err), logger)
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg, logger)
	default:
		logger.Error(failMsg, zap.String("error", logging.SanitizeError(err)))
		writeError(w, http.StatusInternalServerError, failMsg, logger)
	}
}

// validationMessage strips the wrapping prefix from an ErrInvalidInput chain,
// leaving the detail the caller can act on.
func validationMessage(err error) string {
	msg := err.Error()
	marker := apperrors.ErrInvalidInput.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
