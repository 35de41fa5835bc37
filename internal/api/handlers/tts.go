package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/voiceforge/internal/pipeline"
	"github.com/nikhilbhutani/voiceforge/internal/voice"
)

// Generator is the slice of the pipeline the handlers need.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type TTSHandler struct {
	pipe Generator
	log  *slog.Logger
}

func NewTTSHandler(pipe Generator, log *slog.Logger) *TTSHandler {
	return &TTSHandler{pipe: pipe, log: log.With(slog.String("component", "api"))}
}

type GenerateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

func (h *TTSHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	serveGenerated(w, r, h.pipe, h.log, pipeline.Request{
		Text:     req.Text,
		Language: req.Language,
		Voice:    req.Voice,
	})
}

// Voices lists every supported language code with its mapped neural voice.
func (h *TTSHandler) Voices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"voices": voice.Mappings,
		"count":  len(voice.Mappings),
	})
}

// serveGenerated runs the pipeline and streams the artifact back as a
// download. Validation failures map to 400, everything else to 500.
func serveGenerated(w http.ResponseWriter, r *http.Request, pipe Generator, log *slog.Logger, req pipeline.Request) {
	result, err := pipe.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyText) || errors.Is(err, pipeline.ErrNoSpeakableText) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Error("generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "audio generation failed: " + err.Error(),
		})
		return
	}

	download := fmt.Sprintf("tts_%s.mp3", uuid.New().String()[:8])
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download))
	http.ServeFile(w, r, result.Path)
}
