package dialog

import "context"

type providerKey[T any] struct{}

// With scopes a store to the page it belongs to. Descendant code
// reaches the store through From on the same context.
func With[T any](ctx context.Context, s *Store[T]) context.Context {
	return context.WithValue(ctx, providerKey[T]{}, s)
}

// From returns the scoped store. Reaching for a store outside its
// provider scope is a programming error and fails loudly instead of
// silently handing back a default.
func From[T any](ctx context.Context) *Store[T] {
	s, ok := ctx.Value(providerKey[T]{}).(*Store[T])
	if !ok {
		panic("dialog: store accessed outside its provider scope")
	}
	return s
}
