package handlers

import (
	"net/http"
	"time"
)

// HealthHandlers answers liveness probes with build metadata.
type HealthHandlers struct {
	version   string
	startTime time.Time
}

// NewHealthHandlers constructs health handlers carrying the build version.
func NewHealthHandlers(version string) *HealthHandlers {
	return &HealthHandlers{
		version:   version,
		startTime: time.Now().UTC(),
	}
}

// Healthz responds with a simple status payload for monitoring.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
