// Package undo groups board mutations into transactions that are applied
// completely or not at all, and keeps committed transactions for undo/redo.
//
// Commands appended to an open group are executed immediately, so a later
// command sees the effect of an earlier one:
//
//	stack.BeginGroup("Simplify")
//	stack.AppendToGroup(cmd1)
//	stack.AppendToGroup(cmd2)
//	stack.CommitGroup()
//
// If anything goes wrong before CommitGroup, AbortGroup reverts every command
// appended since BeginGroup. A Stack is not safe for concurrent use.
package undo

import (
	"errors"
	"fmt"
)

var (
	ErrGroupActive   = errors.New("a command group is already active")
	ErrNoActiveGroup = errors.New("no active command group")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Command is one reversible mutation. Do is used for the first execution and
// for redo.
type Command interface {
	Do() error
	Undo() error
	Description() string
}

// IsEmpty reports whether cmd is known to change nothing. Commands opt in by
// implementing IsEmpty() bool.
func IsEmpty(cmd Command) bool {
	e, ok := cmd.(interface{ IsEmpty() bool })
	return ok && e.IsEmpty()
}

// Group executes its commands in order as one unit. If one of them fails the
// ones already done are undone again.
type Group struct {
	label string
	cmds  []Command
}

func NewGroup(label string, cmds ...Command) *Group {
	return &Group{label: label, cmds: cmds}
}

// Append adds cmd without executing it.
func (g *Group) Append(cmd Command) {
	g.cmds = append(g.cmds, cmd)
}

func (g *Group) Do() error {
	for i, cmd := range g.cmds {
		if err := cmd.Do(); err != nil {
			err = fmt.Errorf("%s: %w", cmd.Description(), err)
			return errors.Join(err, undoAll(g.cmds[:i]))
		}
	}
	return nil
}

func (g *Group) Undo() error {
	for i := len(g.cmds) - 1; i >= 0; i-- {
		if err := g.cmds[i].Undo(); err != nil {
			err = fmt.Errorf("undo %s: %w", g.cmds[i].Description(), err)
			return errors.Join(err, redoAll(g.cmds[i+1:]))
		}
	}
	return nil
}

func (g *Group) Description() string {
	return g.label
}

func (g *Group) Len() int {
	return len(g.cmds)
}

func (g *Group) IsEmpty() bool {
	for _, cmd := range g.cmds {
		if !IsEmpty(cmd) {
			return false
		}
	}
	return true
}

func undoAll(cmds []Command) error {
	var errs []error
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(); err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", cmds[i].Description(), err))
		}
	}
	return errors.Join(errs...)
}

func redoAll(cmds []Command) error {
	var errs []error
	for _, cmd := range cmds {
		if err := cmd.Do(); err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", cmd.Description(), err))
		}
	}
	return errors.Join(errs...)
}
