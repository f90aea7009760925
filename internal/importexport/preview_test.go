package importexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParsePreviewCSVHonorsQuoting(t *testing.T) {
	csvBody := "code,name,address\n" +
		"B-1,\"Acme, Inc\",\"12 Harbor Rd\nSuite 4\"\n" +
		"B-2,Plain Name,\n"

	preview, err := ParsePreview("billers.csv", strings.NewReader(csvBody))
	require.NoError(t, err)

	assert.Equal(t, []string{"code", "name", "address"}, preview.Headers)
	require.Len(t, preview.Rows, 2)
	assert.Equal(t, "Acme, Inc", preview.Rows[0]["name"], "a quoted comma is not a field break")
	assert.Equal(t, "12 Harbor Rd\nSuite 4", preview.Rows[0]["address"], "a quoted newline is not a row break")
	assert.Equal(t, "", preview.Rows[1]["address"], "short rows pad missing cells")
}

func TestParsePreviewXLSXReadsFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"code", "name"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"U-1", "Kilogram"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"U-2", "Gram"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	preview, err := ParsePreview("units.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"code", "name"}, preview.Headers)
	require.Len(t, preview.Rows, 2)
	assert.Equal(t, "Kilogram", preview.Rows[0]["name"])
	assert.Equal(t, "U-2", preview.Rows[1]["code"])
}

func TestParsePreviewRejectsUnsupportedExtension(t *testing.T) {
	_, err := ParsePreview("records.pdf", strings.NewReader("whatever"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = ParsePreview("noextension", strings.NewReader("whatever"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestParsePreviewRejectsOversizedUpload(t *testing.T) {
	huge := bytes.Repeat([]byte("a"), MaxUploadSize+1)
	_, err := ParsePreview("big.csv", bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestParsePreviewRejectsEmptyFile(t *testing.T) {
	_, err := ParsePreview("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParsePreviewHeaderOnlyFileHasNoRows(t *testing.T) {
	preview, err := ParsePreview("header.csv", strings.NewReader("code,name\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name"}, preview.Headers)
	assert.Empty(t, preview.Rows)
}
