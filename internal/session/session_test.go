package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermCanonicalForm(t *testing.T) {
	assert.Equal(t, "billers.export", Perm("billers", "export"))
}

func TestStateLifecycle(t *testing.T) {
	s := NewState()

	assert.False(t, s.Ready())
	assert.False(t, s.Authenticated())
	assert.False(t, s.Can("billers.view"))
	assert.Zero(t, s.UserID())

	s.Resolve(42, []string{"billers.view", "Customers.Edit", "  units.delete  ", ""})

	assert.True(t, s.Ready())
	assert.True(t, s.Authenticated())
	assert.Equal(t, int64(42), s.UserID())
	assert.True(t, s.Can("billers.view"))
	assert.True(t, s.Can("customers.edit"), "grants are normalized to lowercase")
	assert.True(t, s.Can("CUSTOMERS.EDIT"), "checks are case-insensitive")
	assert.True(t, s.Can("units.delete"))
	assert.False(t, s.Can("billers.delete"))

	s.Clear()

	assert.True(t, s.Ready(), "anonymous is a resolved state")
	assert.False(t, s.Authenticated())
	assert.False(t, s.Can("billers.view"))
	assert.Zero(t, s.UserID())
}

func TestCanAny(t *testing.T) {
	s := NewState()
	s.Resolve(1, []string{"categories.view"})

	assert.True(t, s.CanAny("categories.edit", "categories.view"))
	assert.False(t, s.CanAny("categories.edit", "categories.delete"))
	assert.False(t, s.CanAny())
}
