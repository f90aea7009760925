package importexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxUploadSize caps import uploads at 5MB.
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".xls":  {},
}

var (
	// ErrFileTooLarge is returned for uploads over MaxUploadSize.
	ErrFileTooLarge = errors.New("file exceeds the 5MB import limit")
	// ErrUnsupportedFile is returned for non-csv/spreadsheet uploads.
	ErrUnsupportedFile = errors.New("only csv, xls and xlsx files can be imported")
	// ErrEmptyFile is returned when the upload has no data rows at all.
	ErrEmptyFile = errors.New("file contains no rows")
)

// Preview is a client-side rendering of an upload's header row plus its
// data rows. It is best effort only; server-side row validation stays
// authoritative. Previews are discarded once the import resolves.
type Preview struct {
	Headers []string
	Rows    []map[string]string
}

// ValidateUpload enforces the upload gate shared by preview and the
// import submission: the extension allow-list and the size cap. It
// returns the buffered contents so callers reuse the already-read
// bytes instead of draining the reader twice.
func ValidateUpload(name string, r io.Reader) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrUnsupportedFile
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("importexport: read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ParsePreview reads an upload and builds its preview. CSV parsing uses
// real quoting rules (quoted commas and embedded newlines survive);
// spreadsheets are read from their first sheet.
func ParsePreview(name string, r io.Reader) (*Preview, error) {
	data, err := ValidateUpload(name, r)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		rows, err = readCSV(data)
	} else {
		rows, err = readSheet(data)
	}
	if err != nil {
		return nil, err
	}
	return buildPreview(rows)
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importexport: parse csv: %w", err)
	}
	return rows, nil
}

func readSheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("importexport: open spreadsheet: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("importexport: read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func buildPreview(rows [][]string) (*Preview, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	preview := &Preview{Headers: headers}
	for _, row := range rows[1:] {
		mapped := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				mapped[header] = strings.TrimSpace(row[i])
			} else {
				mapped[header] = ""
			}
		}
		preview.Rows = append(preview.Rows, mapped)
	}
	return preview, nil
}
