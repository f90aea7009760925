package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 5*time.Second, 2, nil)
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestGetDecodesEnvelopeData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "mira", r.URL.Query().Get("search"))
		writeEnvelope(w, http.StatusOK, Envelope{
			Success: true,
			Data:    json.RawMessage(`{"name":"Mira Trading"}`),
		})
	}))

	var out struct {
		Name string `json:"name"`
	}
	query := url.Values{"search": {"mira"}}
	require.NoError(t, client.Get(context.Background(), "/suppliers", query, &out))
	assert.Equal(t, "Mira Trading", out.Name)
}

func TestPostJSONMapsValidationError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnprocessableEntity, Envelope{
			Success: false,
			Message: "The given data was invalid.",
			Errors: map[string][]string{
				"email": {"The email field is required.", "The email must be valid."},
			},
		})
	}))

	err := client.PostJSON(context.Background(), "/billers", map[string]string{"name": "x"}, nil)
	require.Error(t, err)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "The given data was invalid.", ve.Message)
	assert.Equal(t, "The email field is required.", ve.First("email"))
	assert.Empty(t, ve.First("name"))
}

func TestPostJSONMapsAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Unauthenticated."})
	}))

	err := client.PostJSON(context.Background(), "/billers", nil, nil)
	require.Error(t, err)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Unauthenticated.", ae.Message)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Unauthenticated.", UserMessage(err))
}

func TestNotFoundRejectionsMatchSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, Envelope{Success: false, Message: "Record not found."})
	}))

	err := client.Get(context.Background(), "/billers/99", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Record not found.", UserMessage(err), "the server's message survives the mapping")
}

func TestPostFormCarriesFilesAndOverride(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, http.MethodPut, r.FormValue("_method"))
		assert.Equal(t, "Acme", r.FormValue("name"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "logo.png", header.Filename)

		writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: "Updated successfully."})
	}))

	files := []FileField{{Param: "image", Name: "logo.png", Reader: strings.NewReader("png-bytes")}}
	err := client.PostForm(context.Background(), "/suppliers/9", map[string]string{"name": "Acme"}, files, http.MethodPut, nil)
	require.NoError(t, err)
}

func TestDownloadReturnsBlob(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="sample_import_file.csv"`)
		_, _ = w.Write([]byte("code,name\n"))
	}))

	blob, err := client.Download(context.Background(), http.MethodGet, "/billers/download", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "sample_import_file.csv", blob.Filename)
	assert.Equal(t, "text/csv", blob.ContentType)
	assert.Equal(t, "code,name\n", string(blob.Content))
}

func TestDownloadSurfacesEnvelopeRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnprocessableEntity, Envelope{
			Success: false,
			Message: "export request is invalid",
			Errors:  map[string][]string{"format": {"Choose excel or pdf."}},
		})
	}))

	blob, err := client.Download(context.Background(), http.MethodPost, "/billers/export", nil, map[string]string{})
	require.Error(t, err)
	assert.Nil(t, blob)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Choose excel or pdf.", ve.First("format"))
}

func TestGetRetriesTransportErrorsOnly(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			// Kill the connection so the client sees a transport error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		writeEnvelope(w, http.StatusOK, Envelope{Success: true, Data: json.RawMessage(`"recovered"`)})
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "", 5*time.Second, 2, nil)

	var out string
	require.NoError(t, client.Get(context.Background(), "/billers", nil, &out))
	assert.Equal(t, "recovered", out)
	assert.Equal(t, int32(2), hits.Load())
}

func TestMutationsAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "", 5*time.Second, 2, nil)

	err := client.PostJSON(context.Background(), "/billers", map[string]string{"name": "x"}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "a failed mutation must not be resubmitted")
}

func TestUserMessageFallback(t *testing.T) {
	assert.Equal(t, FallbackMessage, UserMessage(&APIError{Status: 500}))
	assert.Equal(t, FallbackMessage, UserMessage(context.DeadlineExceeded))
	assert.Equal(t, "", UserMessage(nil))
}
