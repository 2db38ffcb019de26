package handlers

import (
	"net/http"
)

// HealthResponse represents the health check response
// swagger:model HealthResponse
type HealthResponse struct {
	// Service status
	// example: ok
	Status string `json:"status"`
}

// NewHealthHandler returns the health check handler.
// @Summary Health check
// @Description Reports that the service is up.
// @Tags system
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Service is up"
// @Failure 500 {object} apperrors.Envelope "Internal server error"
// @Router /health [get]
func NewHealthHandler(log Logger) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		log.Infow("Health check endpoint called")
		return WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
