// Package categories wires the hierarchical product-category entity.
package categories

import (
	"log/slog"

	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

// Entity is the plural entity name.
const Entity = "categories"

// Permission names guarding category controls.
var (
	PermView   = session.Perm(Entity, "view")
	PermCreate = session.Perm(Entity, "create")
	PermEdit   = session.Perm(Entity, "edit")
	PermDelete = session.Perm(Entity, "delete")
	PermImport = session.Perm(Entity, "import")
	PermExport = session.Perm(Entity, "export")
)

// Columns is the export column registry.
func Columns() *importexport.ColumnSet {
	return importexport.NewColumnSet(
		importexport.Col("code"),
		importexport.Col("name"),
		importexport.Col("parent_id"),
		importexport.Col("featured"),
		importexport.Col("active_status"),
	)
}

// Client is the category operation set.
type Client struct {
	*resource.Client[Category]
}

// NewClient wires the category client.
func NewClient(api *rest.Client, store *cache.Store, sess *session.State, notifier resource.Notifier, logger *slog.Logger) *Client {
	desc := resource.Descriptor{Entity: Entity, BasePath: "/categories", HasOptions: true}
	return &Client{resource.NewClient[Category](desc, api, store, sess, notifier, logger)}
}

// Input is the create/edit form schema.
type Input struct {
	Code     string `json:"code" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	ParentID int64  `json:"parent_id" validate:"omitempty,gt=0"`
	Featured bool   `json:"featured"`
}

// Payload renders the input as a submission payload. A zero ParentID
// clears the parent, making the category a root.
func (in Input) Payload() *resource.Payload {
	p := resource.NewPayload().
		Set("code", in.Code).
		Set("name", in.Name).
		SetBool("featured", in.Featured)
	if in.ParentID > 0 {
		p.SetInt("parent_id", in.ParentID)
	} else {
		p.Set("parent_id", "")
	}
	return p
}
