package bulkops

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	s := NewSelection()

	s.Add(3)
	s.Add(1)
	s.Add(2)
	s.Add(1)
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []int64{1, 2, 3}, s.IDs())

	s.Remove(2)
	assert.False(t, s.Has(2))
	assert.True(t, s.Has(1))

	s.Toggle(2)
	assert.True(t, s.Has(2))
	s.Toggle(2)
	assert.False(t, s.Has(2))

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Empty(t, s.IDs())
}

func TestConfirmBulkDestroy(t *testing.T) {
	assert.True(t, ConfirmBulkDestroy("DELETE"))
	assert.True(t, ConfirmBulkDestroy("  DELETE  "))
	assert.False(t, ConfirmBulkDestroy("delete"))
	assert.False(t, ConfirmBulkDestroy("Delete"))
	assert.False(t, ConfirmBulkDestroy(""))
	assert.False(t, ConfirmBulkDestroy("DELETE ALL"))
}

func TestConfirmRowDelete(t *testing.T) {
	assert.True(t, ConfirmRowDelete("Acme Inc", "Acme Inc"))
	assert.True(t, ConfirmRowDelete("  Acme Inc ", "Acme Inc"))
	assert.False(t, ConfirmRowDelete("acme inc", "Acme Inc"))
	assert.False(t, ConfirmRowDelete("Acme", "Acme Inc"))
	// An unnamed row can never be confirmed by typing nothing.
	assert.False(t, ConfirmRowDelete("", ""))
	assert.False(t, ConfirmRowDelete("   ", "  "))
}

func TestRunClearsSelectionOnSuccessOnly(t *testing.T) {
	selection := NewSelection()
	selection.Add(1)
	selection.Add(2)
	runner := NewRunner(selection)

	boom := errors.New("server rejected")
	err := runner.Run(context.Background(), func(ctx context.Context, ids []int64) error {
		assert.Equal(t, []int64{1, 2}, ids)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, selection.Count(), "a failed action keeps the selection for retry")

	err = runner.Run(context.Background(), func(context.Context, []int64) error { return nil })
	require.NoError(t, err)
	assert.Zero(t, selection.Count())
}

func TestRunRejectsEmptySelection(t *testing.T) {
	runner := NewRunner(NewSelection())
	err := runner.Run(context.Background(), func(context.Context, []int64) error {
		t.Fatal("action must not run over an empty selection")
		return nil
	})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestRunRejectsOverlap(t *testing.T) {
	selection := NewSelection()
	selection.Add(1)
	runner := NewRunner(selection)

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = runner.Run(context.Background(), func(context.Context, []int64) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.True(t, runner.Busy())
	err := runner.Run(context.Background(), func(context.Context, []int64) error { return nil })
	assert.ErrorIs(t, err, ErrBulkInFlight)

	close(release)
	wg.Wait()
	assert.False(t, runner.Busy())
}

func TestRunDestructiveGatesOnConfirmation(t *testing.T) {
	selection := NewSelection()
	selection.Add(5)
	runner := NewRunner(selection)

	calls := 0
	err := runner.RunDestructive(context.Background(), "delete", func(context.Context, []int64) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrConfirmationMismatch)
	assert.Zero(t, calls)
	assert.Equal(t, 1, selection.Count())

	err = runner.RunDestructive(context.Background(), "DELETE", func(context.Context, []int64) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Zero(t, selection.Count())
}
