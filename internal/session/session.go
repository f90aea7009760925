// Package session tracks the authenticated operator and their granted
// permissions. Resource queries stay disabled while the state is still
// indeterminate so no request fires without credentials.
package session

import (
	"strings"
	"sync"
)

// Status is the resolution state of the session.
type Status int

const (
	// StatusIndeterminate means the session has not been resolved yet.
	StatusIndeterminate Status = iota
	// StatusAnonymous means resolution finished with no operator.
	StatusAnonymous
	// StatusAuthenticated means an operator is signed in.
	StatusAuthenticated
)

// Perm builds a permission name in the canonical entity.action form
// ("billers.export"). All comparisons are case-insensitive.
func Perm(entity, action string) string {
	return entity + "." + action
}

// State holds the current session. Safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	status Status
	userID int64
	perms  map[string]struct{}
}

// NewState returns an indeterminate session.
func NewState() *State {
	return &State{perms: make(map[string]struct{})}
}

// Resolve marks the session authenticated with the granted permissions.
func (s *State) Resolve(userID int64, perms []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticated
	s.userID = userID
	s.perms = make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		s.perms[p] = struct{}{}
	}
}

// Clear marks the session anonymous and drops all permissions.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAnonymous
	s.userID = 0
	s.perms = make(map[string]struct{})
}

// Ready reports whether session resolution has finished.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status != StatusIndeterminate
}

// Authenticated reports whether an operator is signed in.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == StatusAuthenticated
}

// UserID returns the signed-in operator id, zero otherwise.
func (s *State) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Can reports whether the operator holds the permission. This gates UI
// controls only; the server re-checks on every request.
func (s *State) Can(perm string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusAuthenticated {
		return false
	}
	_, ok := s.perms[strings.ToLower(strings.TrimSpace(perm))]
	return ok
}

// CanAny reports whether the operator holds at least one permission.
func (s *State) CanAny(perms ...string) bool {
	for _, p := range perms {
		if s.Can(p) {
			return true
		}
	}
	return false
}
