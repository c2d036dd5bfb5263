package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// handleError responds with an error message
func handleError(w http.ResponseWriter, logger *slog.Logger, err error, statusCode int) {
	logger.Error("Request error", "error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": err.Error()}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error(
			"failed to encode an error response",
			"error", err,
			"response", response,
		)
	}
}
