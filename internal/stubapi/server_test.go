package stubapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRequireTokenRejectsMissingOrWrongBearer(t *testing.T) {
	srv := New(nil, "secret")

	rec, env := doJSON(t, srv.Handler(), http.MethodGet, "/billers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Unauthenticated.", env.Message)

	rec, _ = doJSON(t, srv.Handler(), http.MethodGet, "/billers", "wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, srv.Handler(), http.MethodGet, "/billers", "secret", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListFiltersAndPaginates(t *testing.T) {
	srv := New(nil, "")
	srv.Seed("billers", []map[string]string{
		{"code": "B-1", "name": "North Station", "email": "n@x.test", "phone": "1"},
		{"code": "B-2", "name": "South Station", "email": "s@x.test", "phone": "2"},
		{"code": "B-3", "name": "Harbor", "email": "h@x.test", "phone": "3"},
	})

	query := url.Values{"search": {"station"}, "per_page": {"1"}, "page": {"2"}}
	rec, env := doJSON(t, srv.Handler(), http.MethodGet, "/billers?"+query.Encode(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Items []map[string]any `json:"items"`
		Meta  struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(mustRaw(t, env.Data), &data))
	assert.Equal(t, 2, data.Meta.Total)
	assert.Equal(t, 2, data.Meta.TotalPages)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "South Station", data.Items[0]["name"])
	assert.Equal(t, "active", data.Items[0]["active_status"])
}

func TestUpdateViaOverrideRequiresMarker(t *testing.T) {
	srv := New(nil, "")
	srv.Seed("suppliers", []map[string]string{
		{"code": "S-1", "name": "Old", "email": "s@x.test", "phone": "1"},
	})

	body, contentType := multipartBody(t, map[string]string{"name": "New"}, "", "")
	req := httptest.NewRequest(http.MethodPost, "/suppliers/1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	body, contentType = multipartBody(t, map[string]string{"name": "New", "_method": "PUT"}, "", "")
	req = httptest.NewRequest(http.MethodPost, "/suppliers/1", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env := doJSON(t, srv.Handler(), http.MethodGet, "/suppliers/1", "", nil)
	var row map[string]any
	require.NoError(t, json.Unmarshal(mustRaw(t, env.Data), &row))
	assert.Equal(t, "New", row["name"])
	assert.Equal(t, "S-1", row["code"], "absent fields stay untouched")
}

func TestImportReportsPerRowErrorsAndKeepsGoodRows(t *testing.T) {
	srv := New(nil, "")

	csvBody := "code,name,email,phone\n" +
		"B-1,Good,g@x.test,1\n" +
		"B-2,,,\n" +
		"B-3,Also Good,a@x.test,3\n"
	body, contentType := multipartBody(t, nil, "file", csvBody)
	req := httptest.NewRequest(http.MethodPost, "/billers/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Imported 2 rows; 1 rows failed validation.", env.Message)
	assert.NotEmpty(t, env.Errors["row_3.name"])

	_, listEnv := doJSON(t, srv.Handler(), http.MethodGet, "/billers", "", nil)
	var data struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(mustRaw(t, listEnv.Data), &data))
	assert.Len(t, data.Items, 2)
}

func TestExportEmailAcknowledges(t *testing.T) {
	srv := New(nil, "")

	_, env := doJSON(t, srv.Handler(), http.MethodPost, "/billers/export", "", map[string]any{
		"format":  "pdf",
		"method":  "email",
		"columns": []string{"code"},
		"user_id": 3,
	})
	assert.True(t, env.Success)
	assert.Contains(t, env.Message, "emailed")
}

func TestExportEmailWithoutRecipientRejected(t *testing.T) {
	srv := New(nil, "")

	rec, env := doJSON(t, srv.Handler(), http.MethodPost, "/billers/export", "", map[string]any{
		"format":  "excel",
		"method":  "email",
		"columns": []string{"code"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, env.Errors["user_id"])
}

func TestExportDownloadRendersWorkbook(t *testing.T) {
	srv := New(nil, "")
	srv.Seed("units", []map[string]string{
		{"code": "KG", "name": "Kilogram"},
		{"code": "G", "name": "Gram", "base_unit_id": "1", "operator": "/", "operation_value": "1000"},
	})

	req := httptest.NewRequest(http.MethodPost, "/units/export", strings.NewReader(
		`{"format":"excel","method":"download","columns":["code","name","base_unit_id"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "units_export.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Export")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"code", "name", "base_unit_id"}, rows[0])
	assert.Equal(t, "Kilogram", rows[1][1])
}

func TestExportDownloadRendersPDF(t *testing.T) {
	srv := New(nil, "")

	req := httptest.NewRequest(http.MethodPost, "/billers/export", strings.NewReader(
		`{"format":"pdf","method":"download","columns":["code"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestTemplateDownload(t *testing.T) {
	srv := New(nil, "")

	req := httptest.NewRequest(http.MethodGet, "/categories/download", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sample_import_file.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "code,name"))
}

func TestAddDepositEndpoint(t *testing.T) {
	srv := New(nil, "")
	srv.Seed("customers", []map[string]string{
		{"code": "C-1", "name": "Walkin", "phone": "1", "deposit": "10"},
	})

	rec, env := doJSON(t, srv.Handler(), http.MethodPost, "/customers/1/deposits", "", map[string]string{
		"amount": "2.5",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	_, detailEnv := doJSON(t, srv.Handler(), http.MethodGet, "/customers/1", "", nil)
	var row map[string]any
	require.NoError(t, json.Unmarshal(mustRaw(t, detailEnv.Data), &row))
	assert.Equal(t, "12.5", row["deposit"])

	rec, env = doJSON(t, srv.Handler(), http.MethodPost, "/customers/1/deposits", "", map[string]string{
		"amount": "-1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, env.Errors["amount"])
}

func mustRaw(t *testing.T, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return raw
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileContent string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, "upload.csv")
		require.NoError(t, err)
		_, err = io.WriteString(part, fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}
