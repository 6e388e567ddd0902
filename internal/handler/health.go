package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/osse101/MessageStats_Go/internal/logger"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheck is one named readiness probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz runs every check and reports the first failure.
// @Summary Readiness check
// @Description Returns OK when storage and the chat connection are available
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
			err := c.Check(ctx)
			cancel()
			if err != nil {
				logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "check", c.Name, "error", err)
				respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
					Status:  StatusUnavailable,
					Message: fmt.Sprintf(ErrMsgDependencyDown, c.Name),
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}
