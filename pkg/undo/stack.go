package undo

import (
	"errors"
)

// Stack holds committed groups and the group currently being built.
type Stack struct {
	limit  int
	undo   []*Group
	redo   []*Group
	active *Group
}

// NewStack returns a stack keeping at most limit committed groups. A limit
// of zero or less means 100.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = 100
	}
	return &Stack{limit: limit}
}

// BeginGroup opens a new group. Nested groups are not supported.
func (s *Stack) BeginGroup(label string) error {
	if s.active != nil {
		return ErrGroupActive
	}
	s.active = NewGroup(label)
	return nil
}

// AppendToGroup executes cmd and records it in the open group. A failing
// command is not recorded; the caller decides whether to abort the group.
func (s *Stack) AppendToGroup(cmd Command) error {
	if s.active == nil {
		return ErrNoActiveGroup
	}
	if err := cmd.Do(); err != nil {
		return err
	}
	s.active.Append(cmd)
	return nil
}

// CommitGroup closes the open group and makes it undoable. A group that
// changed nothing is dropped.
func (s *Stack) CommitGroup() error {
	if s.active == nil {
		return ErrNoActiveGroup
	}
	group := s.active
	s.active = nil
	if group.IsEmpty() {
		return nil
	}

	s.undo = append(s.undo, group)
	s.redo = nil
	if len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	return nil
}

// AbortGroup reverts every command of the open group and discards it.
func (s *Stack) AbortGroup() error {
	if s.active == nil {
		return ErrNoActiveGroup
	}
	group := s.active
	s.active = nil
	return undoAll(group.cmds)
}

// Transaction runs fn inside a group. The group is committed if fn succeeds
// and aborted otherwise.
func (s *Stack) Transaction(label string, fn func() error) error {
	if err := s.BeginGroup(label); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return errors.Join(err, s.AbortGroup())
	}
	return s.CommitGroup()
}

func (s *Stack) Undo() error {
	if s.active != nil {
		return ErrGroupActive
	}
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	group := s.undo[len(s.undo)-1]
	if err := group.Undo(); err != nil {
		return err
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, group)
	return nil
}

func (s *Stack) Redo() error {
	if s.active != nil {
		return ErrGroupActive
	}
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	group := s.redo[len(s.redo)-1]
	if err := group.Do(); err != nil {
		return err
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, group)
	return nil
}

func (s *Stack) CanUndo() bool { return s.active == nil && len(s.undo) > 0 }

func (s *Stack) CanRedo() bool { return s.active == nil && len(s.redo) > 0 }

func (s *Stack) IsGroupActive() bool { return s.active != nil }

// UndoText is the label of the group Undo would revert.
func (s *Stack) UndoText() string {
	if len(s.undo) == 0 {
		return ""
	}
	return s.undo[len(s.undo)-1].Description()
}

func (s *Stack) UndoCount() int { return len(s.undo) }
