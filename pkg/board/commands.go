package board

import (
	"github.com/google/uuid"

	"netsimplify/pkg/geometry"
)

// AddElements adds net points, vias and lines to a segment in one step.
// The Add methods only reserve arena slots; nothing changes on the board
// until Do is called.
type AddElements struct {
	segment *Segment
	batch   batch
}

func NewAddElements(s *Segment) *AddElements {
	return &AddElements{segment: s}
}

func (c *AddElements) AddNetPoint(pos geometry.Point, layer Layer) NetPointID {
	return c.AddNetPointWithUUID(uuid.New(), pos, layer)
}

func (c *AddElements) AddNetPointWithUUID(id uuid.UUID, pos geometry.Point, layer Layer) NetPointID {
	np := c.segment.reserveNetPoint(id, pos, layer)
	c.batch.points = append(c.batch.points, np)
	return np
}

func (c *AddElements) AddVia(pos geometry.Point, size geometry.Length) ViaID {
	return c.AddViaWithUUID(uuid.New(), pos, size)
}

func (c *AddElements) AddViaWithUUID(id uuid.UUID, pos geometry.Point, size geometry.Length) ViaID {
	v := c.segment.reserveVia(id, pos, size)
	c.batch.vias = append(c.batch.vias, v)
	return v
}

// AddNetLine adds a line between two anchors. The anchors must be added
// already or be part of this command.
func (c *AddElements) AddNetLine(start, end AnchorID, layer Layer, width geometry.Length) LineID {
	return c.AddNetLineWithUUID(uuid.New(), start, end, layer, width)
}

func (c *AddElements) AddNetLineWithUUID(id uuid.UUID, start, end AnchorID, layer Layer, width geometry.Length) LineID {
	l := c.segment.reserveLine(id, start, end, layer, width)
	c.batch.lines = append(c.batch.lines, l)
	return l
}

func (c *AddElements) Segment() *Segment { return c.segment }

func (c *AddElements) Do() error { return c.segment.add(c.batch) }

func (c *AddElements) Undo() error { return c.segment.remove(c.batch) }

func (c *AddElements) Description() string { return "Add net segment elements" }

func (c *AddElements) IsEmpty() bool { return c.batch.isEmpty() }

// RemoveElements removes net points, vias and lines from a segment in one
// step. An anchor can only be removed together with all of its lines.
type RemoveElements struct {
	segment *Segment
	batch   batch
}

func NewRemoveElements(s *Segment) *RemoveElements {
	return &RemoveElements{segment: s}
}

func (c *RemoveElements) RemoveNetPoint(id NetPointID) {
	c.batch.points = append(c.batch.points, id)
}

func (c *RemoveElements) RemoveVia(id ViaID) {
	c.batch.vias = append(c.batch.vias, id)
}

func (c *RemoveElements) RemoveNetLine(id LineID) {
	c.batch.lines = append(c.batch.lines, id)
}

func (c *RemoveElements) Segment() *Segment { return c.segment }

func (c *RemoveElements) Do() error { return c.segment.remove(c.batch) }

func (c *RemoveElements) Undo() error { return c.segment.add(c.batch) }

func (c *RemoveElements) Description() string { return "Remove net segment elements" }

func (c *RemoveElements) IsEmpty() bool { return c.batch.isEmpty() }
