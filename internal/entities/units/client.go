// Package units wires the measurement-unit entity.
package units

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

// Entity is the plural entity name.
const Entity = "units"

// Permission names guarding unit controls.
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
		importexport.Col("base_unit_id"),
		importexport.Col("operator"),
		importexport.Col("operation_value"),
		importexport.Col("active_status"),
	)
}

// Client is the unit operation set.
type Client struct {
	*resource.Client[Unit]
}

// NewClient wires the unit client.
func NewClient(api *rest.Client, store *cache.Store, sess *session.State, notifier resource.Notifier, logger *slog.Logger) *Client {
	desc := resource.Descriptor{Entity: Entity, BasePath: "/units", HasOptions: true}
	return &Client{resource.NewClient[Unit](desc, api, store, sess, notifier, logger)}
}

// Input is the create/edit form schema. Base-unit fields are required
// together: a derived unit names its base, the conversion operator and
// a positive conversion value.
type Input struct {
	Code           string          `json:"code" validate:"required,max=50"`
	Name           string          `json:"name" validate:"required,max=100"`
	BaseUnitID     int64           `json:"base_unit_id" validate:"omitempty,gt=0"`
	Operator       string          `json:"operator" validate:"required_with=BaseUnitID,omitempty,oneof=* /"`
	OperationValue decimal.Decimal `json:"operation_value"`
}

// Validate adds the decimal check the schema tags cannot express.
func (in Input) Validate() error {
	if in.BaseUnitID > 0 && in.OperationValue.LessThanOrEqual(decimal.Zero) {
		return &rest.ValidationError{
			Message: "unit is invalid",
			Fields: map[string][]string{
				"operation_value": {"Conversion value must be greater than zero."},
			},
		}
	}
	return nil
}

// Payload renders the input as a submission payload.
func (in Input) Payload() *resource.Payload {
	p := resource.NewPayload().
		Set("code", in.Code).
		Set("name", in.Name)
	if in.BaseUnitID > 0 {
		p.SetInt("base_unit_id", in.BaseUnitID).
			Set("operator", in.Operator).
			SetDecimal("operation_value", in.OperationValue)
	} else {
		p.Set("base_unit_id", "")
	}
	return p
}
