// internal/server/handlers/health.go

package handlers

import "net/http"

// GeminiStatus reports the dependency state the health endpoint
// exposes. Satisfied by *gemini.Client.
type GeminiStatus interface {
	KeyConfigured() bool
	TextModel() string
	ImageModel() string
}

// HealthHandler handles liveness and dependency status requests
type HealthHandler struct {
	gemini GeminiStatus
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(gemini GeminiStatus) *HealthHandler {
	return &HealthHandler{gemini: gemini}
}

// Health reports process liveness
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GeminiHealth reports the Gemini dependency status without spending a
// model call
func (h *HealthHandler) GeminiHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.gemini.KeyConfigured() {
		status = "unconfigured"
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":        status,
		"keyConfigured": h.gemini.KeyConfigured(),
		"textModel":     h.gemini.TextModel(),
		"imageModel":    h.gemini.ImageModel(),
	})
}
