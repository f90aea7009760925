// Package billers wires the biller entity: model, permissions, export
// columns and the typed resource client.
package billers

import (
	"log/slog"

	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

// Entity is the plural entity name.
const Entity = "billers"

// Permission names guarding biller controls.
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
		importexport.Col("email"),
		importexport.Col("phone"),
		importexport.Col("company_name"),
		importexport.Col("nid"),
		importexport.Col("address"),
		importexport.Col("city"),
		importexport.Col("country"),
		importexport.Col("active_status"),
	)
}

// Client is the biller operation set.
type Client struct {
	*resource.Client[Biller]
}

// NewClient wires the biller client.
func NewClient(api *rest.Client, store *cache.Store, sess *session.State, notifier resource.Notifier, logger *slog.Logger) *Client {
	desc := resource.Descriptor{Entity: Entity, BasePath: "/billers", HasOptions: true}
	return &Client{resource.NewClient[Biller](desc, api, store, sess, notifier, logger)}
}

// Input is the create/edit form schema.
type Input struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=30"`
	CompanyName string `json:"company_name" validate:"max=100"`
	NID         string `json:"nid" validate:"max=50"`
	Address     string `json:"address" validate:"max=255"`
	City        string `json:"city" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
}

// Payload renders the input as a submission payload.
func (in Input) Payload() *resource.Payload {
	return resource.NewPayload().
		Set("code", in.Code).
		Set("name", in.Name).
		Set("email", in.Email).
		Set("phone", in.Phone).
		Set("company_name", in.CompanyName).
		Set("nid", in.NID).
		Set("address", in.Address).
		Set("city", in.City).
		Set("country", in.Country)
}
