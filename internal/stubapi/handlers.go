package stubapi

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 8 << 20

type resourceHandler struct {
	logger *slog.Logger
	table  *table
}

func (h *resourceHandler) mount(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/options", h.options)
	r.Get("/download", h.template)
	r.Post("/", h.create)
	r.Post("/import", h.importFile)
	r.Post("/export", h.export)
	r.Post("/bulk-destroy", h.bulkDestroy)
	r.Patch("/bulk-activate", h.bulkActivate)
	r.Patch("/bulk-deactivate", h.bulkDeactivate)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Post("/{id}", h.updateViaOverride)
	r.Delete("/{id}", h.destroy)
}

func (h *resourceHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	items, total := h.table.list(listQuery{
		page:      page,
		perPage:   perPage,
		search:    query.Get("search"),
		status:    query.Get("status"),
		startDate: query.Get("start_date"),
		endDate:   query.Get("end_date"),
	})
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	totalPages := (total + perPage - 1) / perPage
	ok(w, "", map[string]any{
		"items": items,
		"meta": map[string]any{
			"page":        page,
			"per_page":    perPage,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

func (h *resourceHandler) options(w http.ResponseWriter, r *http.Request) {
	ok(w, "", h.table.options())
}

func (h *resourceHandler) show(w http.ResponseWriter, r *http.Request) {
	id, valid := parseID(chi.URLParam(r, "id"))
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	row, found := h.table.get(id)
	if !found {
		fail(w, http.StatusNotFound, "Record not found.")
		return
	}
	ok(w, "", row)
}

func (h *resourceHandler) create(w http.ResponseWriter, r *http.Request) {
	values, err := h.readValues(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	if errs := h.table.validate(values, true); len(errs) > 0 {
		failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", errs)
		return
	}
	if code := values["code"]; code != "" {
		if _, exists := h.table.findByField("code", code); exists {
			failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
				"code": {"The code has already been taken."},
			})
			return
		}
	}
	row := h.table.create(values)
	ok(w, "Created successfully.", row)
}

func (h *resourceHandler) update(w http.ResponseWriter, r *http.Request) {
	id, valid := parseID(chi.URLParam(r, "id"))
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	values, err := h.readValues(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	if errs := h.table.validate(values, false); len(errs) > 0 {
		failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", errs)
		return
	}
	if !h.table.update(id, values) {
		fail(w, http.StatusNotFound, "Record not found.")
		return
	}
	ok(w, "Updated successfully.", map[string]any{"id": id})
}

// updateViaOverride accepts multipart POST carrying the override-method
// marker and treats it as PUT.
func (h *resourceHandler) updateViaOverride(w http.ResponseWriter, r *http.Request) {
	values, err := h.readValues(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	if !strings.EqualFold(values["_method"], http.MethodPut) {
		fail(w, http.StatusMethodNotAllowed, "Unsupported method.")
		return
	}
	id, valid := parseID(chi.URLParam(r, "id"))
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	delete(values, "_method")
	if errs := h.table.validate(values, false); len(errs) > 0 {
		failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", errs)
		return
	}
	if !h.table.update(id, values) {
		fail(w, http.StatusNotFound, "Record not found.")
		return
	}
	ok(w, "Updated successfully.", map[string]any{"id": id})
}

func (h *resourceHandler) destroy(w http.ResponseWriter, r *http.Request) {
	id, valid := parseID(chi.URLParam(r, "id"))
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	if !h.table.delete(id) {
		fail(w, http.StatusNotFound, "Record not found.")
		return
	}
	ok(w, "Deleted successfully.", nil)
}

type idsPayload struct {
	IDs []int64 `json:"ids"`
}

func (h *resourceHandler) bulkActivate(w http.ResponseWriter, r *http.Request) {
	var body idsPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		fail(w, http.StatusBadRequest, "No ids provided.")
		return
	}
	count := h.table.setActive(body.IDs, true)
	ok(w, "Activated selected rows.", map[string]any{"activated_count": count})
}

func (h *resourceHandler) bulkDeactivate(w http.ResponseWriter, r *http.Request) {
	var body idsPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		fail(w, http.StatusBadRequest, "No ids provided.")
		return
	}
	count := h.table.setActive(body.IDs, false)
	ok(w, "Deactivated selected rows.", map[string]any{"deactivated_count": count})
}

func (h *resourceHandler) bulkDestroy(w http.ResponseWriter, r *http.Request) {
	var body idsPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.IDs) == 0 {
		fail(w, http.StatusBadRequest, "No ids provided.")
		return
	}
	count := h.table.destroy(body.IDs)
	ok(w, fmt.Sprintf("Deleted %d rows.", count), nil)
}

// importFile parses the uploaded CSV, validates each row, imports the
// valid ones (upsert by code) and reports the rest as row-level errors.
func (h *resourceHandler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		fail(w, http.StatusBadRequest, "Expected a multipart upload.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"file": {"The file field is required."},
		})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		fail(w, http.StatusUnprocessableEntity, "The file has no importable rows.")
		return
	}
	headers := rows[0]
	imported := 0
	rowErrors := map[string][]string{}
	for i, row := range rows[1:] {
		values := map[string]string{}
		for col, header := range headers {
			if col < len(row) {
				values[strings.TrimSpace(header)] = strings.TrimSpace(row[col])
			}
		}
		if errs := h.table.validate(values, true); len(errs) > 0 {
			for field, msgs := range errs {
				key := fmt.Sprintf("row_%d.%s", i+2, field)
				rowErrors[key] = append(rowErrors[key], msgs...)
			}
			continue
		}
		if id, exists := h.table.findByField("code", values["code"]); exists && values["code"] != "" {
			h.table.update(id, values)
		} else {
			h.table.create(values)
		}
		imported++
	}
	if len(rowErrors) > 0 {
		failFields(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Imported %d rows; %d rows failed validation.", imported, len(rows)-1-imported),
			rowErrors)
		return
	}
	ok(w, fmt.Sprintf("Imported %d rows.", imported), nil)
}

type exportPayload struct {
	IDs       []int64  `json:"ids"`
	Format    string   `json:"format"`
	Method    string   `json:"method"`
	Columns   []string `json:"columns"`
	UserID    int64    `json:"user_id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

func (h *resourceHandler) export(w http.ResponseWriter, r *http.Request) {
	var body exportPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	errs := map[string][]string{}
	if body.Format != "excel" && body.Format != "pdf" {
		errs["format"] = append(errs["format"], "Choose excel or pdf.")
	}
	if body.Method != "download" && body.Method != "email" {
		errs["method"] = append(errs["method"], "Choose download or email.")
	}
	if len(body.Columns) == 0 {
		errs["columns"] = append(errs["columns"], "Select at least one column to export.")
	}
	if body.Method == "email" && body.UserID <= 0 {
		errs["user_id"] = append(errs["user_id"], "Select a user to email the export to.")
	}
	if len(errs) > 0 {
		failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", errs)
		return
	}

	if body.Method == "email" {
		ok(w, "Export queued; it will be emailed shortly.", nil)
		return
	}

	rows := h.exportRows(body)
	if body.Format == "pdf" {
		content := renderPDFStub(h.table.spec.Entity, body.Columns, rows)
		serveBlob(w, h.table.spec.Entity+"_export.pdf", "application/pdf", content)
		return
	}
	content, err := renderWorkbook(h.table.spec.Entity, body.Columns, rows)
	if err != nil {
		h.logger.Error("render export workbook", slog.Any("error", err))
		fail(w, http.StatusInternalServerError, "Export failed.")
		return
	}
	serveBlob(w, h.table.spec.Entity+"_export.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *resourceHandler) exportRows(body exportPayload) []map[string]any {
	if len(body.IDs) > 0 {
		rows := make([]map[string]any, 0, len(body.IDs))
		for _, id := range body.IDs {
			if row, found := h.table.get(id); found {
				rows = append(rows, row)
			}
		}
		return rows
	}
	rows, _ := h.table.list(listQuery{perPage: 1 << 30, startDate: body.StartDate, endDate: body.EndDate})
	return rows
}

func (h *resourceHandler) template(w http.ResponseWriter, r *http.Request) {
	content := renderTemplateCSV(h.table.spec)
	serveBlob(w, "sample_import_file.csv", "text/csv", content)
}

// readValues accepts either a JSON object of string fields or a
// multipart form (uploaded file fields are recorded by filename).
func (h *resourceHandler) readValues(r *http.Request) (map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
		values := map[string]string{}
		for field, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				values[field] = vals[0]
			}
		}
		for field, files := range r.MultipartForm.File {
			if len(files) > 0 {
				values[field] = files[0].Filename
			}
		}
		return values, nil
	}
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func serveBlob(w http.ResponseWriter, filename, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
