package resource

import (
	"math"
	"net/url"
	"sort"
	"strconv"
)

// Display status values derived from is_active.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ActiveStatus derives the display status from the activation flag.
// It is the only way active_status may be produced.
func ActiveStatus(isActive bool) string {
	if isActive {
		return StatusActive
	}
	return StatusInactive
}

// Filters are the server-side list query parameters. Zero values are
// omitted from the request.
type Filters struct {
	Page      int
	PerPage   int
	Search    string
	Status    string // "", "active" or "inactive"
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD

	// Extra holds entity-specific filters (parent_id, country, ...).
	Extra map[string]string
}

// Values renders the filters as request query parameters.
func (f Filters) Values() url.Values {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	if f.StartDate != "" {
		values.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		values.Set("end_date", f.EndDate)
	}
	keys := make([]string, 0, len(f.Extra))
	for k := range f.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if f.Extra[k] != "" {
			values.Set(k, f.Extra[k])
		}
	}
	return values
}

// Meta contains pagination metadata for list responses.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta computes pagination metadata.
func NewMeta(page, perPage, total int) Meta {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Meta{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Page is a paginated list response.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// Option is one entry of a dropdown option listing.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}
