package importexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
)

func TestSaveBlobWritesNamedFile(t *testing.T) {
	dir := t.TempDir()
	blob := &rest.Blob{
		Filename:    "billers_export.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("workbook-bytes"),
	}

	path, err := SaveBlob(blob, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "billers_export.xlsx"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workbook-bytes", string(content))

	assertNoTempLeftovers(t, dir)
}

func TestSaveBlobCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads", "nested")
	blob := &rest.Blob{Filename: "sample_import_file.csv", Content: []byte("code,name\n")}

	path, err := SaveBlob(blob, dir)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveBlobDerivesNameFromContentType(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveBlob(&rest.Blob{ContentType: "application/pdf", Content: []byte("%PDF")}, dir)
	require.NoError(t, err)
	assert.Equal(t, "export.pdf", filepath.Base(path))

	path, err = SaveBlob(&rest.Blob{ContentType: "application/octet-stream", Content: []byte("x")}, dir)
	require.NoError(t, err)
	assert.Equal(t, "export.bin", filepath.Base(path))
}

func TestSaveBlobStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	blob := &rest.Blob{Filename: "../../escape.csv", Content: []byte("data")}

	path, err := SaveBlob(blob, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.csv"), path, "a served filename may not climb out of the download dir")
}

func TestSaveBlobRejectsEmptyBlob(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveBlob(nil, dir)
	assert.Error(t, err)
	_, err = SaveBlob(&rest.Blob{Filename: "empty.csv"}, dir)
	assert.Error(t, err)

	assertNoTempLeftovers(t, dir)
}

func assertNoTempLeftovers(t *testing.T, dir string) {
	t.Helper()
	leftovers, err := filepath.Glob(filepath.Join(dir, ".download-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary download files must not survive")
}
