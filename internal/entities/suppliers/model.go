package suppliers

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/resource"
)

// Supplier is a supplier record.
type Supplier struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CompanyName    string          `json:"company_name"`
	VATNumber      string          `json:"vat_number"`
	Image          string          `json:"image,omitempty"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	Country        string          `json:"country"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      *string         `json:"created_at"`
	UpdatedAt      *string         `json:"updated_at"`
}

// ActiveStatus derives the display status from IsActive.
func (s Supplier) ActiveStatus() string {
	return resource.ActiveStatus(s.IsActive)
}
