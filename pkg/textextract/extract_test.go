package textextract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTXT(t *testing.T) {
	data := []byte("  Hello plain text.\n")

	got, err := Extract(bytes.NewReader(data), int64(len(data)), ".txt")
	require.NoError(t, err)

	assert.Equal(t, "Hello plain text.", got.Content)
	assert.Equal(t, 1, got.Pages)
}

func TestExtractTXTUppercaseExtension(t *testing.T) {
	data := []byte("upper")

	got, err := Extract(bytes.NewReader(data), int64(len(data)), ".TXT")
	require.NoError(t, err)
	assert.Equal(t, "upper", got.Content)
}

func TestExtractTXTByMIME(t *testing.T) {
	data := []byte("mime routed")

	got, err := Extract(bytes.NewReader(data), int64(len(data)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "mime routed", got.Content)
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Hello docx world</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	got, err := Extract(bytes.NewReader(buf.Bytes()), int64(buf.Len()), ".docx")
	require.NoError(t, err)

	assert.Equal(t, "Hello docx world", got.Content)
	assert.Equal(t, 1, got.Pages)
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "docx")
	require.Error(t, err)
}

func TestExtractUnsupported(t *testing.T) {
	data := []byte("x")

	_, err := Extract(bytes.NewReader(data), int64(len(data)), ".png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, SupportedTypes())
}
