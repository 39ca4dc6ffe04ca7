package simplify

import (
	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
	"netsimplify/pkg/undo"
)

// SplitLine replaces a line by two lines meeting at a new net point. The
// position is not checked to lie on the line.
type SplitLine struct {
	point board.NetPointID
	group *undo.Group
}

func NewSplitLine(s *board.Segment, id board.LineID, pos geometry.Point) *SplitLine {
	line := s.Line(id)
	add := board.NewAddElements(s)
	np := add.AddNetPoint(pos, line.Layer)
	add.AddNetLine(line.Start, board.NetPointAnchor(np), line.Layer, line.Width)
	add.AddNetLine(board.NetPointAnchor(np), line.End, line.Layer, line.Width)
	rm := board.NewRemoveElements(s)
	rm.RemoveNetLine(id)
	return &SplitLine{
		point: np,
		group: undo.NewGroup("Split net line", add, rm),
	}
}

// SplitPoint is the net point created by the split. It exists in the
// segment once the command is executed.
func (c *SplitLine) SplitPoint() board.AnchorID {
	return board.NetPointAnchor(c.point)
}

func (c *SplitLine) Do() error { return c.group.Do() }

func (c *SplitLine) Undo() error { return c.group.Undo() }

func (c *SplitLine) Description() string { return c.group.Description() }
