package billers

import "github.com/meridian-pos/meridian-admin/internal/resource"

// Biller is a point-of-sale biller record.
type Biller struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	CompanyName string  `json:"company_name"`
	NID         string  `json:"nid"`
	Image       string  `json:"image,omitempty"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

// ActiveStatus derives the display status from IsActive.
func (b Biller) ActiveStatus() string {
	return resource.ActiveStatus(b.IsActive)
}
