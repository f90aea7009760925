package customers

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/resource"
)

// Customer is a customer record with its billing references.
type Customer struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CompanyName    string          `json:"company_name"`
	TaxNumber      string          `json:"tax_number"`
	Address        string          `json:"address"`
	PostalCode     string          `json:"postal_code"`
	CountryID      *int64          `json:"country_id"`
	StateID        *int64          `json:"state_id"`
	CityID         *int64          `json:"city_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Deposit        decimal.Decimal `json:"deposit"`
	RewardPoints   int             `json:"reward_points"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      *string         `json:"created_at"`
	UpdatedAt      *string         `json:"updated_at"`
}

// ActiveStatus derives the display status from IsActive.
func (c Customer) ActiveStatus() string {
	return resource.ActiveStatus(c.IsActive)
}
