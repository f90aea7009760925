package resource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

var (
	// ErrSessionNotReady gates queries while the session state is still
	// indeterminate, so no request fires without credentials.
	ErrSessionNotReady = errors.New("session state not resolved yet")
	// ErrInvalidID rejects queries for a falsy record id.
	ErrInvalidID = errors.New("invalid ID")
)

// Descriptor identifies one entity against the backend API.
type Descriptor struct {
	// Entity is the plural name ("billers"); it prefixes cache keys and
	// permission names.
	Entity string
	// BasePath is the REST path ("/billers").
	BasePath string
	// HasOptions marks entities whose options feed dropdowns elsewhere,
	// so every write also drops the option cache.
	HasOptions bool
}

// Client is the uniform operation set over one entity. Queries go
// through the cache; mutations invalidate the scopes the manifest
// declares for them and notify the operator of the outcome. A failed
// mutation changes nothing client-side: the cache still reflects
// pre-mutation truth until a successful retry.
type Client[T any] struct {
	desc     Descriptor
	keys     Keys
	api      *rest.Client
	cache    *cache.Store
	session  *session.State
	manifest Manifest
	notifier Notifier
	logger   *slog.Logger
}

// NewClient wires the operation set for one entity.
func NewClient[T any](desc Descriptor, api *rest.Client, store *cache.Store, sess *session.State, notifier Notifier, logger *slog.Logger) *Client[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client[T]{
		desc:     desc,
		keys:     NewKeys(desc.Entity),
		api:      api,
		cache:    store,
		session:  sess,
		manifest: DefaultManifest(desc.HasOptions),
		notifier: notifier,
		logger:   logger,
	}
}

// Keys exposes the entity's cache key factory.
func (c *Client[T]) Keys() Keys {
	return c.keys
}

// Path returns the entity's base REST path.
func (c *Client[T]) Path() string {
	return c.desc.BasePath
}

// Entity returns the entity's plural name.
func (c *Client[T]) Entity() string {
	return c.desc.Entity
}

// List fetches one filtered page, cached per filter combination.
func (c *Client[T]) List(ctx context.Context, f Filters) (Page[T], error) {
	var page Page[T]
	if !c.session.Ready() {
		return page, ErrSessionNotReady
	}
	err := c.cache.GetOrFetch(ctx, c.keys.List(f), &page, func(ctx context.Context) (any, error) {
		var fetched Page[T]
		if err := c.api.Get(ctx, c.desc.BasePath, f.Values(), &fetched); err != nil {
			return nil, err
		}
		return fetched, nil
	})
	return page, err
}

// Detail fetches one record by id.
func (c *Client[T]) Detail(ctx context.Context, id int64) (T, error) {
	var item T
	if id <= 0 {
		return item, ErrInvalidID
	}
	if !c.session.Ready() {
		return item, ErrSessionNotReady
	}
	err := c.cache.GetOrFetch(ctx, c.keys.Detail(id), &item, func(ctx context.Context) (any, error) {
		var fetched T
		if err := c.api.Get(ctx, c.recordPath(id), nil, &fetched); err != nil {
			return nil, err
		}
		return fetched, nil
	})
	return item, err
}

// Options fetches the dropdown option listing, cached in its own scope.
func (c *Client[T]) Options(ctx context.Context) ([]Option, error) {
	if !c.session.Ready() {
		return nil, ErrSessionNotReady
	}
	var options []Option
	err := c.cache.GetOrFetch(ctx, c.keys.Options(), &options, func(ctx context.Context) (any, error) {
		var fetched []Option
		if err := c.api.Get(ctx, c.desc.BasePath+"/options", nil, &fetched); err != nil {
			return nil, err
		}
		return fetched, nil
	})
	return options, err
}

// Create submits a new record; multipart when the payload carries file
// attachments, JSON otherwise.
func (c *Client[T]) Create(ctx context.Context, p *Payload) (T, error) {
	var item T
	var err error
	if p.HasFiles() {
		err = c.api.PostForm(ctx, c.desc.BasePath, p.Fields(), p.Files(), "", &item)
	} else {
		err = c.api.PostJSON(ctx, c.desc.BasePath, p.Fields(), &item)
	}
	if err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return item, err
	}
	c.afterMutation(ctx, OpCreate, 0, "Created successfully.")
	return item, nil
}

// Update submits a partial update for id. Fields absent from the
// payload are left untouched by the server. Multipart updates go out as
// POST with the override-method marker set to PUT.
func (c *Client[T]) Update(ctx context.Context, id int64, p *Payload) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalidID
	}
	var err error
	if p.HasFiles() {
		err = c.api.PostForm(ctx, c.recordPath(id), p.Fields(), p.Files(), http.MethodPut, nil)
	} else {
		err = c.api.PutJSON(ctx, c.recordPath(id), p.Fields(), nil)
	}
	if err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return 0, err
	}
	c.afterMutation(ctx, OpUpdate, id, "Updated successfully.")
	return id, nil
}

// Delete removes one record.
func (c *Client[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := c.api.Delete(ctx, c.recordPath(id)); err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return err
	}
	c.afterMutation(ctx, OpDelete, id, "Deleted successfully.")
	return nil
}

type idsBody struct {
	IDs []int64 `json:"ids"`
}

type bulkCounts struct {
	Activated   int `json:"activated_count"`
	Deactivated int `json:"deactivated_count"`
}

// BulkActivate activates the selected rows and returns the server's
// aggregate count. No per-item reconciliation happens client-side.
func (c *Client[T]) BulkActivate(ctx context.Context, ids []int64) (int, error) {
	var counts bulkCounts
	if err := c.api.PatchJSON(ctx, c.desc.BasePath+"/bulk-activate", idsBody{IDs: ids}, &counts); err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return 0, err
	}
	c.afterMutation(ctx, OpBulkActivate, 0, "Activated selected rows.")
	return counts.Activated, nil
}

// BulkDeactivate deactivates the selected rows.
func (c *Client[T]) BulkDeactivate(ctx context.Context, ids []int64) (int, error) {
	var counts bulkCounts
	if err := c.api.PatchJSON(ctx, c.desc.BasePath+"/bulk-deactivate", idsBody{IDs: ids}, &counts); err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return 0, err
	}
	c.afterMutation(ctx, OpBulkDeactivate, 0, "Deactivated selected rows.")
	return counts.Deactivated, nil
}

// BulkDestroy permanently removes the selected rows.
func (c *Client[T]) BulkDestroy(ctx context.Context, ids []int64) error {
	if err := c.api.PostJSON(ctx, c.desc.BasePath+"/bulk-destroy", idsBody{IDs: ids}, nil); err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return err
	}
	c.afterMutation(ctx, OpBulkDestroy, 0, "Deleted selected rows.")
	return nil
}

// Import uploads one file for server-side row validation and upsert.
// The upload gate (extension allow-list, size cap) runs first; a
// rejected file never reaches the network.
func (c *Client[T]) Import(ctx context.Context, filename string, file io.Reader) error {
	data, err := importexport.ValidateUpload(filename, file)
	if err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	files := []rest.FileField{{Param: "file", Name: filename, Reader: bytes.NewReader(data)}}
	if err := c.api.PostForm(ctx, c.desc.BasePath+"/import", nil, files, "", nil); err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return err
	}
	c.afterMutation(ctx, OpImport, 0, "Imported successfully.")
	return nil
}

// Export submits an export request. The download method returns the
// blob for saving; the email method returns (nil, nil) and the server
// delivers out of band.
func (c *Client[T]) Export(ctx context.Context, req *importexport.ExportRequest) (*rest.Blob, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	path := c.desc.BasePath + "/export"
	if req.Method == importexport.MethodEmail {
		if err := c.api.PostJSON(ctx, path, req, nil); err != nil {
			c.notifier.Error(rest.UserMessage(err))
			return nil, err
		}
		c.notifier.Success("Export will be emailed shortly.")
		return nil, nil
	}
	blob, err := c.api.Download(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return nil, err
	}
	return blob, nil
}

// DownloadTemplate fetches the import sample template blob, cached
// under the entity's template key. The template is static per entity,
// so no mutation invalidates it; it simply expires with the TTL.
func (c *Client[T]) DownloadTemplate(ctx context.Context) (*rest.Blob, error) {
	var blob rest.Blob
	err := c.cache.GetOrFetch(ctx, c.keys.Template(), &blob, func(ctx context.Context) (any, error) {
		fetched, err := c.api.Download(ctx, http.MethodGet, c.desc.BasePath+"/download", nil, nil)
		if err != nil {
			return nil, err
		}
		if fetched.Filename == "" {
			fetched.Filename = importexport.TemplateFilename
		}
		return fetched, nil
	})
	if err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return nil, err
	}
	return &blob, nil
}

// Mutate sends an entity-specific JSON mutation (a path outside the
// uniform set) and invalidates the given targets on success.
func (c *Client[T]) Mutate(ctx context.Context, method, path string, body any, id int64, success string, targets ...Target) error {
	var err error
	switch method {
	case http.MethodPost:
		err = c.api.PostJSON(ctx, path, body, nil)
	case http.MethodPut:
		err = c.api.PutJSON(ctx, path, body, nil)
	case http.MethodPatch:
		err = c.api.PatchJSON(ctx, path, body, nil)
	default:
		return errors.New("resource: unsupported mutation method " + method)
	}
	if err != nil {
		c.notifier.Error(rest.UserMessage(err))
		return err
	}
	c.cache.Invalidate(ctx, resolveTargets(c.keys, id, targets)...)
	c.notifier.Success(success)
	return nil
}

// afterMutation drops the cache scopes the manifest declares for op and
// notifies the operator. Invalidation is fire and forget; the UI is not
// blocked on the refetch.
func (c *Client[T]) afterMutation(ctx context.Context, op Op, id int64, success string) {
	c.cache.Invalidate(ctx, c.manifest.keysFor(op, c.keys, id)...)
	c.notifier.Success(success)
}

func (c *Client[T]) recordPath(id int64) string {
	return c.desc.BasePath + "/" + strconv.FormatInt(id, 10)
}
