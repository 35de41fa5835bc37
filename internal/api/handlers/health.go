package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nikhilbhutani/voiceforge/internal/artifact"
	"github.com/nikhilbhutani/voiceforge/internal/voice"
)

type HealthHandler struct {
	store *artifact.Store
}

func NewHealthHandler(store *artifact.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "healthy",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"audio_directory":    h.store.Dir(),
		"cached_audio_files": count,
	})
}

func (h *HealthHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "online",
		"service":             "Multilingual TTS API",
		"version":             "1.0.0",
		"supported_languages": voice.Languages(),
		"endpoints": map[string]string{
			"POST /generate-tts":      "synthesize speech from JSON text",
			"POST /generate-tts-file": "synthesize speech from an uploaded document",
			"GET /voices":             "list supported languages and voices",
			"GET /health":             "service health",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
