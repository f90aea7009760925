// Package customers wires the customer entity, including the
// add-deposit flow that is specific to it.
package customers

import (
	"log/slog"

	"github.com/meridian-pos/meridian-admin/internal/dialog"
	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

// Entity is the plural entity name.
const Entity = "customers"

// KindAddDeposit is the customer-specific dialog.
const KindAddDeposit dialog.Kind = "add-deposit"

// Permission names guarding customer controls.
var (
	PermView    = session.Perm(Entity, "view")
	PermCreate  = session.Perm(Entity, "create")
	PermEdit    = session.Perm(Entity, "edit")
	PermDelete  = session.Perm(Entity, "delete")
	PermImport  = session.Perm(Entity, "import")
	PermExport  = session.Perm(Entity, "export")
	PermDeposit = session.Perm(Entity, "deposit")
)

// Columns is the export column registry.
func Columns() *importexport.ColumnSet {
	return importexport.NewColumnSet(
		importexport.Col("code"),
		importexport.Col("name"),
		importexport.Col("email"),
		importexport.Col("phone"),
		importexport.Col("company_name"),
		importexport.Col("tax_number"),
		importexport.Col("address"),
		importexport.Col("postal_code"),
		importexport.Col("opening_balance"),
		importexport.Col("credit_limit"),
		importexport.Col("deposit"),
		importexport.Col("reward_points"),
		importexport.Col("active_status"),
	)
}

// Client is the customer operation set.
type Client struct {
	*resource.Client[Customer]
}

// NewClient wires the customer client.
func NewClient(api *rest.Client, store *cache.Store, sess *session.State, notifier resource.Notifier, logger *slog.Logger) *Client {
	desc := resource.Descriptor{Entity: Entity, BasePath: "/customers", HasOptions: true}
	return &Client{resource.NewClient[Customer](desc, api, store, sess, notifier, logger)}
}

// Input is the create/edit form schema.
type Input struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"required,max=30"`
	CompanyName string `json:"company_name" validate:"max=100"`
	TaxNumber   string `json:"tax_number" validate:"max=50"`
	Address     string `json:"address" validate:"max=255"`
	PostalCode  string `json:"postal_code" validate:"max=20"`
	CountryID   int64  `json:"country_id" validate:"omitempty,gt=0"`
	StateID     int64  `json:"state_id" validate:"omitempty,gt=0"`
	CityID      int64  `json:"city_id" validate:"omitempty,gt=0"`
}

// Payload renders the input as a submission payload.
func (in Input) Payload() *resource.Payload {
	p := resource.NewPayload().
		Set("code", in.Code).
		Set("name", in.Name).
		Set("email", in.Email).
		Set("phone", in.Phone).
		Set("company_name", in.CompanyName).
		Set("tax_number", in.TaxNumber).
		Set("address", in.Address).
		Set("postal_code", in.PostalCode)
	if in.CountryID > 0 {
		p.SetInt("country_id", in.CountryID)
	}
	if in.StateID > 0 {
		p.SetInt("state_id", in.StateID)
	}
	if in.CityID > 0 {
		p.SetInt("city_id", in.CityID)
	}
	return p
}
