package bulkops

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrEmptySelection rejects a bulk action over no rows.
	ErrEmptySelection = errors.New("no rows selected")
	// ErrBulkInFlight rejects a bulk action while another is running,
	// so two bulk mutations cannot race on the same selection.
	ErrBulkInFlight = errors.New("a bulk action is already running")
	// ErrConfirmationMismatch rejects a destructive action whose typed
	// confirmation does not match.
	ErrConfirmationMismatch = errors.New("confirmation text does not match")
)

// Runner executes bulk actions over a selection, one at a time. On
// success the selection is cleared; on failure it is kept so the
// operator can retry.
type Runner struct {
	selection *Selection
	inFlight  atomic.Bool
}

// NewRunner wires a runner over the table's selection.
func NewRunner(selection *Selection) *Runner {
	return &Runner{selection: selection}
}

// Busy reports whether a bulk action is running. Bulk controls stay
// disabled while it is.
func (r *Runner) Busy() bool {
	return r.inFlight.Load()
}

// Run executes a non-destructive bulk action over the current
// selection.
func (r *Runner) Run(ctx context.Context, action func(context.Context, []int64) error) error {
	ids := r.selection.IDs()
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		return ErrBulkInFlight
	}
	defer r.inFlight.Store(false)

	if err := action(ctx, ids); err != nil {
		return err
	}
	r.selection.Clear()
	return nil
}

// RunDestructive executes a destructive bulk action, gated on the typed
// confirmation token.
func (r *Runner) RunDestructive(ctx context.Context, confirmation string, action func(context.Context, []int64) error) error {
	if !ConfirmBulkDestroy(confirmation) {
		return ErrConfirmationMismatch
	}
	return r.Run(ctx, action)
}
