package customers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
)

// DepositInput is the add-deposit form schema.
type DepositInput struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// Validate checks the deposit client-side. Failures come back as a
// *rest.ValidationError so the form maps them like server rejections.
func (in DepositInput) Validate() error {
	fields := map[string][]string{}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		fields["amount"] = append(fields["amount"], "Deposit amount must be greater than zero.")
	}
	if len(in.Note) > 255 {
		fields["note"] = append(fields["note"], "Note is too long.")
	}
	if len(fields) > 0 {
		return &rest.ValidationError{Message: "deposit is invalid", Fields: fields}
	}
	return nil
}

// AddDeposit records a deposit against the customer and refreshes the
// affected list and detail caches.
func (c *Client) AddDeposit(ctx context.Context, id int64, in DepositInput) error {
	if id <= 0 {
		return resource.ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		return err
	}
	body := map[string]string{
		"amount": in.Amount.String(),
		"note":   in.Note,
	}
	path := c.Path() + "/" + strconv.FormatInt(id, 10) + "/deposits"
	return c.Mutate(ctx, http.MethodPost, path, body, id, "Deposit added.",
		resource.TargetLists, resource.TargetDetail)
}
