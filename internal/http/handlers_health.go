package httpapi

import "net/http"

// HandleHealth returns API health status and user count
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		UserCount: h.store.Count(),
	}

	h.logger.Debug().Int("user_count", resp.UserCount).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
