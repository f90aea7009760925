package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// methodOverrideField carries the override-method marker for servers
// that accept updates as multipart POST.
const methodOverrideField = "_method"

// FileField is one file attachment of a multipart submission.
type FileField struct {
	Param  string
	Name   string
	Reader io.Reader
}

// Client talks to the backend API. Reads are retried on transport
// failure; mutations are never retried automatically.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a Client against baseURL. An empty token leaves
// requests unauthenticated (the stub API will reject them).
func NewClient(baseURL, token string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err == nil || r == nil || r.Request == nil {
				return false
			}
			return r.Request.Method == http.MethodGet
		}).
		SetHeader("Accept", "application/json")
	if token != "" {
		hc.SetAuthToken(token)
	}
	hc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	return &Client{http: hc, logger: logger}
}

// Get performs a GET and decodes the envelope payload into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	return c.finish("GET", path, resp, err, dest)
}

// PostJSON performs a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body, dest any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	return c.finish("POST", path, resp, err, dest)
}

// PutJSON performs a PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, body, dest any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Put(path)
	return c.finish("PUT", path, resp, err, dest)
}

// PatchJSON performs a PATCH with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, body, dest any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Patch(path)
	return c.finish("PATCH", path, resp, err, dest)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.http.R().SetContext(ctx).Delete(path)
	return c.finish("DELETE", path, resp, err, nil)
}

// PostForm submits fields and files as multipart form data. A non-empty
// methodOverride adds the override-method marker so the server treats
// the POST as that verb.
func (c *Client) PostForm(ctx context.Context, path string, fields map[string]string, files []FileField, methodOverride string, dest any) error {
	req := c.http.R().SetContext(ctx)
	form := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		form[k] = v
	}
	if methodOverride != "" {
		form[methodOverrideField] = methodOverride
	}
	req.SetFormData(form)
	for _, f := range files {
		req.SetFileReader(f.Param, f.Name, f.Reader)
	}
	resp, err := req.Post(path)
	return c.finish("POST", path, resp, err, dest)
}

// Blob is a binary response ready to hand to a saver.
type Blob struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Download fetches a binary response. When the server answers with a
// JSON envelope instead (a rejection), the envelope error is returned.
func (c *Client) Download(ctx context.Context, method, path string, query url.Values, body any) (*Blob, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("api download failed", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	ct := resp.Header().Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var env Envelope
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return nil, &APIError{Status: resp.StatusCode(), Message: FallbackMessage}
		}
		if err := env.Err(resp.StatusCode()); err != nil {
			return nil, err
		}
		return nil, &APIError{Status: resp.StatusCode(), Message: "expected a file but the server sent none"}
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: FallbackMessage}
	}
	blob := &Blob{
		Filename:    dispositionFilename(resp.Header().Get("Content-Disposition")),
		ContentType: ct,
		Content:     resp.Body(),
	}
	return blob, nil
}

func (c *Client) finish(method, path string, resp *resty.Response, err error, dest any) error {
	if err != nil {
		c.logger.Error("api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: FallbackMessage}
	}
	if err := env.Err(resp.StatusCode()); err != nil {
		return err
	}
	if err := env.Decode(dest); err != nil {
		return fmt.Errorf("rest: decode %s %s: %w", method, path, err)
	}
	return nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
