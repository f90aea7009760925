package categories

import "github.com/meridian-pos/meridian-admin/internal/resource"

// Category is a product category. ParentID is nil for roots.
type Category struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	ParentID  *int64  `json:"parent_id"`
	Featured  bool    `json:"featured"`
	IsActive  bool    `json:"is_active"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// ActiveStatus derives the display status from IsActive.
func (c Category) ActiveStatus() string {
	return resource.ActiveStatus(c.IsActive)
}
