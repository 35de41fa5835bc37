package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/nikhilbhutani/voiceforge/internal/pipeline"
	"github.com/nikhilbhutani/voiceforge/pkg/textextract"
)

// DocumentHandler narrates uploaded documents.
type DocumentHandler struct {
	pipe Generator
	log  *slog.Logger
}

func NewDocumentHandler(pipe Generator, log *slog.Logger) *DocumentHandler {
	return &DocumentHandler{pipe: pipe, log: log.With(slog.String("component", "api"))}
}

// Narrate extracts the text of an uploaded document and synthesizes it.
// Optional "language" and "voice" form fields steer voice selection the same
// way the JSON endpoint does.
func (h *DocumentHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	fileType := filepath.Ext(header.Filename)
	if fileType == "" {
		fileType = header.Header.Get("Content-Type")
	}

	extracted, err := textextract.Extract(file, header.Size, fileType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cannot extract text: " + err.Error()})
		return
	}
	if strings.TrimSpace(extracted.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document contains no text"})
		return
	}

	h.log.Info("narrating document", "file", header.Filename, "pages", extracted.Pages)

	serveGenerated(w, r, h.pipe, h.log, pipeline.Request{
		Text:     extracted.Content,
		Language: r.FormValue("language"),
		Voice:    r.FormValue("voice"),
	})
}
