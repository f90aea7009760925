// Package dialog holds the per-page dialog and row-selection UI state
// for one entity: which dialog is open and which row it targets. One
// store exists per page mount; state is reset, not destroyed, between
// dialog transitions.
package dialog

import (
	"sync"
	"time"
)

// Kind names one dialog of an entity page.
type Kind string

// Dialog kinds shared by every entity. Entities add their own
// (customers: KindAddDeposit).
const (
	KindAdd         Kind = "add"
	KindEdit        Kind = "edit"
	KindDelete      Kind = "delete"
	KindView        Kind = "view"
	KindImport      Kind = "import"
	KindExport      Kind = "export"
	KindMultiDelete Kind = "multi-delete"
)

// DefaultClearDelay is how long the current row stays readable after a
// dialog closes, so the closing dialog body can still render it during
// its exit transition.
const DefaultClearDelay = 400 * time.Millisecond

// Store tracks the open dialog and the current row for one page mount.
// Safe for concurrent use.
type Store[T any] struct {
	mu         sync.Mutex
	open       *Kind
	current    *T
	clearDelay time.Duration
	timer      *time.Timer
	generation int
}

// NewStore returns a closed store with the default clear delay.
func NewStore[T any]() *Store[T] {
	return &Store[T]{clearDelay: DefaultClearDelay}
}

// WithClearDelay overrides the deferred-clear delay. Tests use a short
// one.
func (s *Store[T]) WithClearDelay(d time.Duration) *Store[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearDelay = d
	return s
}

// SetCurrent records the row the next dialog targets. Called
// immediately before opening an edit/delete/view-style dialog.
func (s *Store[T]) SetCurrent(row *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.stopTimerLocked()
	s.current = row
}

// Open transitions to open(kind).
func (s *Store[T]) Open(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.open = &kind
}

// OpenFor records the row and opens the dialog in one step.
func (s *Store[T]) OpenFor(kind Kind, row *T) {
	s.SetCurrent(row)
	s.Open(kind)
}

// Close transitions to closed. The current row is cleared on a deferred
// timer so the dialog body does not lose it mid exit-animation; a
// SetCurrent or Open before the timer fires cancels the clear.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = nil
	s.stopTimerLocked()
	gen := s.generation
	s.timer = time.AfterFunc(s.clearDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen || s.open != nil {
			return
		}
		s.current = nil
	})
}

// Kind returns the open dialog kind, if any.
func (s *Store[T]) Kind() (Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		return "", false
	}
	return *s.open, true
}

// IsOpen reports whether the given dialog is the open one.
func (s *Store[T]) IsOpen(kind Kind) bool {
	current, ok := s.Kind()
	return ok && current == kind
}

// Current returns the row the open (or just-closed) dialog targets.
func (s *Store[T]) Current() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store[T]) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
