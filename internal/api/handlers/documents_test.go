package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestNarrateTXT(t *testing.T) {
	gen := &fakeGenerator{result: artifactFixture(t)}
	h := NewDocumentHandler(gen, discardLogger())

	body, ctype := multipartBody(t, "story.txt", "Once upon a time.", map[string]string{
		"language": "hi",
		"voice":    "hi-IN-MadhurNeural",
	})
	req := httptest.NewRequest(http.MethodPost, "/generate-tts-file", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	h.Narrate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Once upon a time.", gen.req.Text)
	assert.Equal(t, "hi", gen.req.Language)
	assert.Equal(t, "hi-IN-MadhurNeural", gen.req.Voice)
}

func TestNarrateMissingFile(t *testing.T) {
	h := NewDocumentHandler(&fakeGenerator{}, discardLogger())

	body, ctype := multipartBody(t, "", "", map[string]string{"language": "en"})
	req := httptest.NewRequest(http.MethodPost, "/generate-tts-file", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	h.Narrate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file required")
}

func TestNarrateUnsupportedType(t *testing.T) {
	h := NewDocumentHandler(&fakeGenerator{}, discardLogger())

	body, ctype := multipartBody(t, "photo.png", "not text", nil)
	req := httptest.NewRequest(http.MethodPost, "/generate-tts-file", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	h.Narrate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot extract text")
}

func TestNarrateEmptyDocument(t *testing.T) {
	h := NewDocumentHandler(&fakeGenerator{}, discardLogger())

	body, ctype := multipartBody(t, "blank.txt", "   \n\t  ", nil)
	req := httptest.NewRequest(http.MethodPost, "/generate-tts-file", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	h.Narrate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "document contains no text")
}

func TestNarrateNotMultipart(t *testing.T) {
	h := NewDocumentHandler(&fakeGenerator{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/generate-tts-file", bytes.NewReader([]byte(`{"text":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Narrate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid multipart form")
}
