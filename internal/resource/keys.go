// Package resource implements the generic CRUD client shared by every
// admin entity: cache identity, the uniform operation set, and the
// declarative invalidation manifest.
package resource

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
)

// Cache scopes. Every key for an entity lives under one of these, so
// invalidating the scope key covers all of its variants.
const (
	scopeList     = "list"
	scopeDetail   = "detail"
	scopeOption   = "option"
	scopeTemplate = "template"
)

// Keys builds the cache identities for one entity. It is pure: the same
// inputs always produce the same key, and List/Detail keys are always
// descendants of Lists/Details.
type Keys struct {
	entity string
}

// NewKeys returns the key factory for an entity (plural name).
func NewKeys(entity string) Keys {
	return Keys{entity: entity}
}

// All is the root of every key for this entity.
func (k Keys) All() string {
	return k.entity
}

// Lists covers every filtered list variant.
func (k Keys) Lists() string {
	return k.join(scopeList)
}

// List identifies one filtered list variant.
func (k Keys) List(f Filters) string {
	return k.join(scopeList, filterToken(f.Values()))
}

// Details covers every cached detail record.
func (k Keys) Details() string {
	return k.join(scopeDetail)
}

// Detail identifies one record by id.
func (k Keys) Detail(id int64) string {
	return k.join(scopeDetail, strconv.FormatInt(id, 10))
}

// Options identifies the dropdown option listing.
func (k Keys) Options() string {
	return k.join(scopeOption)
}

// Template identifies the import sample template.
func (k Keys) Template() string {
	return k.join(scopeTemplate)
}

func (k Keys) join(parts ...string) string {
	return k.entity + cache.KeySeparator + strings.Join(parts, cache.KeySeparator)
}

// filterToken canonicalizes a filter set: keys sorted, values escaped
// so the token can never collide with the key separator or a glob
// metacharacter.
func filterToken(values url.Values) string {
	if len(values) == 0 {
		return "all"
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		for _, v := range values[key] {
			pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(pairs, "&")
}
