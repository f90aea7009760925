// Package suppliers wires the supplier entity.
package suppliers

import (
	"io"
	"log/slog"

	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

// Entity is the plural entity name.
const Entity = "suppliers"

// Permission names guarding supplier controls.
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
		importexport.Col("vat_number"),
		importexport.Col("address"),
		importexport.Col("city"),
		importexport.Col("country"),
		importexport.Col("opening_balance"),
		importexport.Col("active_status"),
	)
}

// Client is the supplier operation set.
type Client struct {
	*resource.Client[Supplier]
}

// NewClient wires the supplier client.
func NewClient(api *rest.Client, store *cache.Store, sess *session.State, notifier resource.Notifier, logger *slog.Logger) *Client {
	desc := resource.Descriptor{Entity: Entity, BasePath: "/suppliers", HasOptions: true}
	return &Client{resource.NewClient[Supplier](desc, api, store, sess, notifier, logger)}
}

// Input is the create/edit form schema. Image is optional; edit flows
// leave it nil when the operator did not choose a new file so the
// server keeps the existing asset.
type Input struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=30"`
	CompanyName string `json:"company_name" validate:"max=100"`
	VATNumber   string `json:"vat_number" validate:"max=50"`
	Address     string `json:"address" validate:"max=255"`
	City        string `json:"city" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`

	ImageName string    `json:"-"`
	Image     io.Reader `json:"-"`
}

// Payload renders the input as a submission payload; the image is
// attached only when one was chosen.
func (in Input) Payload() *resource.Payload {
	p := resource.NewPayload().
		Set("code", in.Code).
		Set("name", in.Name).
		Set("email", in.Email).
		Set("phone", in.Phone).
		Set("company_name", in.CompanyName).
		Set("vat_number", in.VATNumber).
		Set("address", in.Address).
		Set("city", in.City).
		Set("country", in.Country)
	if in.Image != nil {
		p.AttachFile("image", in.ImageName, in.Image)
	}
	return p
}
