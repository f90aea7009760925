package importexport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
)

// TemplateFilename is the fixed name used when the server does not name
// the sample template blob.
const TemplateFilename = "sample_import_file.csv"

// SaveBlob writes a downloaded blob into dir and returns the final
// path. The content goes to a temporary file first and is renamed into
// place; on any failure the temporary file is removed, so a failed save
// never leaves a partial download behind.
func SaveBlob(blob *rest.Blob, dir string) (string, error) {
	if blob == nil || len(blob.Content) == 0 {
		return "", errors.New("importexport: nothing to save")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("importexport: create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("importexport: create temp file: %w", err)
	}
	if _, err := tmp.Write(blob.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("importexport: write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("importexport: close download: %w", err)
	}
	final := filepath.Join(dir, safeFilename(blob))
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("importexport: finalize download: %w", err)
	}
	return final, nil
}

func safeFilename(blob *rest.Blob) string {
	name := filepath.Base(strings.TrimSpace(blob.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "export" + extensionFor(blob.ContentType)
	}
	return name
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "spreadsheetml"):
		return ".xlsx"
	case strings.Contains(contentType, "pdf"):
		return ".pdf"
	case strings.Contains(contentType, "csv"):
		return ".csv"
	default:
		return ".bin"
	}
}
