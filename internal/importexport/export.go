// Package importexport implements the shared import preview parsing,
// export request handling and blob saving used by every entity flow.
package importexport

import (
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
)

// Export output formats.
const (
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Export delivery methods.
const (
	MethodDownload = "download"
	MethodEmail    = "email"
)

var exportValidate = validator.New()

// ExportRequest describes one export submission. IDs restricts the
// export to a pre-selected row subset; when empty the full filtered
// list is implied. UserID identifies the recipient and is required for
// the email method.
type ExportRequest struct {
	IDs       []int64  `json:"ids,omitempty"`
	Format    string   `json:"format" validate:"required,oneof=excel pdf"`
	Method    string   `json:"method" validate:"required,oneof=download email"`
	Columns   []string `json:"columns" validate:"required,min=1"`
	UserID    int64    `json:"user_id,omitempty" validate:"required_if=Method email"`
	StartDate string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Validate checks the request client-side before any network call.
// Failures come back as a *rest.ValidationError so callers map them
// onto form fields the same way server rejections are mapped.
func (r *ExportRequest) Validate() error {
	err := exportValidate.Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field, message := exportFieldMessage(fe)
		fields[field] = append(fields[field], message)
	}
	return &rest.ValidationError{Message: "export request is invalid", Fields: fields}
}

func exportFieldMessage(fe validator.FieldError) (string, string) {
	switch fe.Field() {
	case "Format":
		return "format", "Choose excel or pdf."
	case "Method":
		return "method", "Choose download or email."
	case "Columns":
		return "columns", "Select at least one column to export."
	case "UserID":
		return "user_id", "Select a user to email the export to."
	case "StartDate":
		return "start_date", "Start date must be YYYY-MM-DD."
	case "EndDate":
		return "end_date", "End date must be YYYY-MM-DD."
	default:
		return fe.Field(), "Invalid value."
	}
}
