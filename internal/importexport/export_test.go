package importexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
)

func TestExportRequestValidatePasses(t *testing.T) {
	req := &ExportRequest{
		Format:  FormatExcel,
		Method:  MethodDownload,
		Columns: []string{"code", "name"},
	}
	assert.NoError(t, req.Validate())

	req = &ExportRequest{
		Format:    FormatPDF,
		Method:    MethodEmail,
		Columns:   []string{"code"},
		UserID:    12,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}
	assert.NoError(t, req.Validate())
}

func TestExportRequestEmailNeedsRecipient(t *testing.T) {
	req := &ExportRequest{
		Format:  FormatExcel,
		Method:  MethodEmail,
		Columns: []string{"code"},
	}
	err := req.Validate()
	require.Error(t, err)
	ve, ok := rest.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Select a user to email the export to.", ve.First("user_id"))

	// Download never needs a recipient.
	req.Method = MethodDownload
	assert.NoError(t, req.Validate())
}

func TestExportRequestFieldMessages(t *testing.T) {
	req := &ExportRequest{
		Format:    "word",
		Method:    "fax",
		Columns:   nil,
		StartDate: "01/02/2026",
	}
	err := req.Validate()
	require.Error(t, err)
	ve, ok := rest.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Choose excel or pdf.", ve.First("format"))
	assert.Equal(t, "Choose download or email.", ve.First("method"))
	assert.Equal(t, "Select at least one column to export.", ve.First("columns"))
	assert.Equal(t, "Start date must be YYYY-MM-DD.", ve.First("start_date"))
}

func TestColumnSet(t *testing.T) {
	set := NewColumnSet(Col("code"), Col("company_name"), Col("active_status"))

	// Fresh sets start fully selected, in registry order.
	assert.Equal(t, []string{"code", "company_name", "active_status"}, set.Selected())
	assert.Equal(t, "Company Name", set.All()[1].Label)

	set.Toggle("company_name")
	assert.Equal(t, []string{"code", "active_status"}, set.Selected())

	set.Toggle("company_name")
	assert.Equal(t, []string{"code", "company_name", "active_status"}, set.Selected())

	// Unknown keys never enter the selection.
	set.Toggle("no_such_column")
	assert.Equal(t, []string{"code", "company_name", "active_status"}, set.Selected())

	set.DeselectAll()
	assert.Empty(t, set.Selected())
	set.SelectAll()
	assert.Len(t, set.Selected(), 3)
}
