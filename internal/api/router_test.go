package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/voiceforge/internal/artifact"
	"github.com/nikhilbhutani/voiceforge/internal/audio"
	"github.com/nikhilbhutani/voiceforge/internal/pipeline"
	"github.com/nikhilbhutani/voiceforge/internal/synthesis"
	"github.com/nikhilbhutani/voiceforge/internal/text"
	"github.com/nikhilbhutani/voiceforge/pkg/chunker"
)

type stubSynthesizer struct{}

func (stubSynthesizer) SynthesizeAll(ctx context.Context, chunks []chunker.Chunk, voiceID string) ([]*synthesis.Result, error) {
	results := make([]*synthesis.Result, len(chunks))
	for i := range chunks {
		pcm := make([]byte, 3200)
		for j := 0; j+2 <= len(pcm); j += 2 {
			pcm[j], pcm[j+1] = 0x10, 0x27
		}
		results[i] = &synthesis.Result{Audio: pcm, ContentType: "audio/l16", SampleRate: 16000}
	}
	return results, nil
}

type stubAssembler struct {
	path string
}

func (s *stubAssembler) Assemble(ctx context.Context, segments []*audio.Segment) (*audio.Artifact, error) {
	return &audio.Artifact{Path: s.path, Name: filepath.Base(s.path), Duration: time.Second}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := artifact.NewStore(t.TempDir(), log)
	require.NoError(t, err)

	mp3 := store.Path("stub.mp3")
	require.NoError(t, os.WriteFile(mp3, []byte("ID3stub"), 0o644))

	decoder := audio.NewDecoder(audio.NewFFmpeg(""), 16000)
	pipe := pipeline.New(
		text.NewNormalizer(16),
		chunker.New(chunker.DefaultOptions()),
		stubSynthesizer{},
		audio.NewProcessor(decoder, audio.DefaultProcessorOptions(), log),
		&stubAssembler{path: mp3},
		log,
	)

	rt := NewRouter(pipe, store, log)
	t.Cleanup(rt.Stop)
	return rt.Setup()
}

func TestRouterInfo(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"online"`)
}

func TestRouterHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestRouterVoices(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/voices", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "en-US-JennyNeural")
}

func TestRouterGenerateTTS(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/generate-tts", strings.NewReader(`{"text": "Hello there, general audience."}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ID3stub", rec.Body.String())
}

func TestRouterGenerateTTSEmptyText(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/generate-tts", strings.NewReader(`{"text": "  "}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/generate-tts", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterUnknownRoute(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
