package simplify

import (
	"fmt"

	"netsimplify/pkg/board"
	"netsimplify/pkg/undo"
)

// ErrNoRemovableAnchor is returned when two anchors are combined and
// neither of them is a net point.
var ErrNoRemovableAnchor = fmt.Errorf("%w: no anchor eligible for removal", board.ErrLogic)

// CombineAnchors merges one anchor into another. Every line of the removed
// anchor is moved over to the kept anchor, except lines between the two,
// and the removed anchor is deleted.
//
// Only net points can be removed. If the anchor passed for removal is not a
// net point but the one to keep is, the roles are swapped.
type CombineAnchors struct {
	segment *board.Segment
	remove  board.AnchorID
	keep    board.AnchorID
	group   *undo.Group
}

func NewCombineAnchors(s *board.Segment, remove, keep board.AnchorID) (*CombineAnchors, error) {
	if remove != keep {
		if _, ok := remove.NetPoint(); !ok {
			if _, ok := keep.NetPoint(); !ok {
				return nil, board.NewError("combine").Entity("segment", s.UUID()).
					Context("%s into %s", remove, keep).Cause(ErrNoRemovableAnchor).Err()
			}
			remove, keep = keep, remove
		}
	}
	return &CombineAnchors{segment: s, remove: remove, keep: keep}, nil
}

// KeepAnchor returns the anchor that survives the combination.
func (c *CombineAnchors) KeepAnchor() board.AnchorID { return c.keep }

func (c *CombineAnchors) RemovedAnchor() board.AnchorID { return c.remove }

// build captures the lines of the removed anchor. It runs on first
// execution so earlier commands of the same transaction are taken into
// account.
func (c *CombineAnchors) build() *undo.Group {
	add := board.NewAddElements(c.segment)
	rm := board.NewRemoveElements(c.segment)
	for _, id := range c.segment.NetLines(c.remove) {
		line := c.segment.Line(id)
		if other := line.OtherPoint(c.remove); other != c.keep {
			add.AddNetLine(c.keep, other, line.Layer, line.Width)
		}
		rm.RemoveNetLine(id)
	}
	np, _ := c.remove.NetPoint()
	rm.RemoveNetPoint(np)
	return undo.NewGroup(c.Description(), add, rm)
}

func (c *CombineAnchors) Do() error {
	if c.IsEmpty() {
		return nil
	}
	if c.group == nil {
		c.group = c.build()
	}
	return c.group.Do()
}

func (c *CombineAnchors) Undo() error {
	if c.group == nil {
		return nil
	}
	return c.group.Undo()
}

func (c *CombineAnchors) Description() string { return "Combine anchors" }

func (c *CombineAnchors) IsEmpty() bool { return c.remove == c.keep }
