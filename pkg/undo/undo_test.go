package undo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// counter is a command that adds delta to a shared value.
type counter struct {
	value  *int
	delta  int
	failDo bool
}

func (c *counter) Do() error {
	if c.failDo {
		return errBoom
	}
	*c.value += c.delta
	return nil
}

func (c *counter) Undo() error {
	*c.value -= c.delta
	return nil
}

func (c *counter) Description() string { return "counter" }

func (c *counter) IsEmpty() bool { return c.delta == 0 }

func TestCommitAndUndoRedo(t *testing.T) {
	value := 0
	s := NewStack(10)

	require.NoError(t, s.BeginGroup("add"))
	require.True(t, s.IsGroupActive())
	require.NoError(t, s.AppendToGroup(&counter{value: &value, delta: 2}))
	require.NoError(t, s.AppendToGroup(&counter{value: &value, delta: 3}))
	require.Equal(t, 5, value, "appended commands execute immediately")
	require.NoError(t, s.CommitGroup())

	require.True(t, s.CanUndo())
	require.Equal(t, "add", s.UndoText())

	require.NoError(t, s.Undo())
	require.Equal(t, 0, value)
	require.True(t, s.CanRedo())

	require.NoError(t, s.Redo())
	require.Equal(t, 5, value)
	require.ErrorIs(t, s.Redo(), ErrNothingToRedo)
}

func TestAbortGroupRevertsEverything(t *testing.T) {
	value := 0
	s := NewStack(10)

	require.NoError(t, s.BeginGroup("partial"))
	require.NoError(t, s.AppendToGroup(&counter{value: &value, delta: 4}))
	require.ErrorIs(t, s.AppendToGroup(&counter{value: &value, delta: 1, failDo: true}), errBoom)
	require.NoError(t, s.AbortGroup())

	require.Equal(t, 0, value)
	require.False(t, s.CanUndo())
	require.False(t, s.IsGroupActive())
}

func TestTransaction(t *testing.T) {
	value := 0
	s := NewStack(10)

	err := s.Transaction("fails", func() error {
		if err := s.AppendToGroup(&counter{value: &value, delta: 1}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, 0, value)

	err = s.Transaction("works", func() error {
		return s.AppendToGroup(&counter{value: &value, delta: 1})
	})
	require.NoError(t, err)
	require.Equal(t, 1, value)
	require.Equal(t, 1, s.UndoCount())
}

func TestEmptyGroupIsDropped(t *testing.T) {
	value := 0
	s := NewStack(10)

	require.NoError(t, s.BeginGroup("noop"))
	require.NoError(t, s.AppendToGroup(&counter{value: &value}))
	require.NoError(t, s.AppendToGroup(NewGroup("inner")))
	require.NoError(t, s.CommitGroup())
	require.False(t, s.CanUndo())
}

func TestGroupStateErrors(t *testing.T) {
	value := 0
	s := NewStack(10)

	require.ErrorIs(t, s.AppendToGroup(&counter{value: &value, delta: 1}), ErrNoActiveGroup)
	require.ErrorIs(t, s.CommitGroup(), ErrNoActiveGroup)
	require.ErrorIs(t, s.AbortGroup(), ErrNoActiveGroup)
	require.ErrorIs(t, s.Undo(), ErrNothingToUndo)

	require.NoError(t, s.BeginGroup("outer"))
	require.ErrorIs(t, s.BeginGroup("inner"), ErrGroupActive)
	require.ErrorIs(t, s.Undo(), ErrGroupActive)
	require.NoError(t, s.CommitGroup())
}

func TestLimit(t *testing.T) {
	value := 0
	s := NewStack(2)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Transaction("step", func() error {
			return s.AppendToGroup(&counter{value: &value, delta: 1})
		}))
	}
	require.Equal(t, 2, s.UndoCount())
	require.NoError(t, s.Undo())
	require.NoError(t, s.Undo())
	require.ErrorIs(t, s.Undo(), ErrNothingToUndo)
	require.Equal(t, 1, value)
}

func TestGroupDoRollsBack(t *testing.T) {
	value := 0
	g := NewGroup("batch",
		&counter{value: &value, delta: 1},
		&counter{value: &value, delta: 2},
		&counter{value: &value, delta: 3, failDo: true},
	)
	require.ErrorIs(t, g.Do(), errBoom)
	require.Equal(t, 0, value)
	require.Equal(t, 3, g.Len())
	require.False(t, g.IsEmpty())
}
