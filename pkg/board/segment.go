package board

import (
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"netsimplify/pkg/geometry"
)

type netPointSlot struct {
	uuid  uuid.UUID
	pos   geometry.Point
	layer Layer
	added bool
}

type viaSlot struct {
	uuid  uuid.UUID
	pos   geometry.Point
	size  geometry.Length
	added bool
}

type lineSlot struct {
	uuid       uuid.UUID
	start, end AnchorID
	layer      Layer
	width      geometry.Length
	added      bool
}

// Segment is one connected piece of copper of a net signal.
type Segment struct {
	uuid  uuid.UUID
	index int
	board *Board
	net   *NetSignal

	points []netPointSlot
	vias   []viaSlot
	lines  []lineSlot

	// incident lists the added lines of every anchor that has any.
	incident map[AnchorID][]LineID
	// uuids holds the identities of all added elements.
	uuids map[uuid.UUID]struct{}
}

// NetPoint is a read-only view of a net point.
type NetPoint struct {
	ID       NetPointID
	UUID     uuid.UUID
	Position geometry.Point
	Layer    Layer
}

type Via struct {
	ID       ViaID
	UUID     uuid.UUID
	Position geometry.Point
	Size     geometry.Length
}

type Line struct {
	ID         LineID
	UUID       uuid.UUID
	Start, End AnchorID
	Layer      Layer
	Width      geometry.Length
}

// OtherPoint returns the endpoint of l that is not a. If a is not an
// endpoint of l, the start is returned.
func (l Line) OtherPoint(a AnchorID) AnchorID {
	if l.Start == a {
		return l.End
	}
	return l.Start
}

// HasEndpoint reports whether a is the start or end of l.
func (l Line) HasEndpoint(a AnchorID) bool {
	return l.Start == a || l.End == a
}

func (s *Segment) UUID() uuid.UUID { return s.uuid }

func (s *Segment) NetSignal() *NetSignal { return s.net }

func (s *Segment) Board() *Board { return s.board }

func (s *Segment) order() int {
	if s == nil {
		return -1
	}
	return s.index
}

func (s *Segment) hasNetPoint(id NetPointID) bool {
	return id >= 0 && int(id) < len(s.points)
}

func (s *Segment) hasVia(id ViaID) bool {
	return id >= 0 && int(id) < len(s.vias)
}

func (s *Segment) hasLine(id LineID) bool {
	return id >= 0 && int(id) < len(s.lines)
}

// NetPoint returns a view of the net point, added or not. Unknown IDs give
// the zero NetPoint.
func (s *Segment) NetPoint(id NetPointID) NetPoint {
	if !s.hasNetPoint(id) {
		return NetPoint{}
	}
	p := s.points[id]
	return NetPoint{ID: id, UUID: p.uuid, Position: p.pos, Layer: p.layer}
}

func (s *Segment) Via(id ViaID) Via {
	if !s.hasVia(id) {
		return Via{}
	}
	v := s.vias[id]
	return Via{ID: id, UUID: v.uuid, Position: v.pos, Size: v.size}
}

func (s *Segment) Line(id LineID) Line {
	if !s.hasLine(id) {
		return Line{}
	}
	l := s.lines[id]
	return Line{ID: id, UUID: l.uuid, Start: l.start, End: l.end, Layer: l.layer, Width: l.width}
}

// LineGeometry returns the positions of the line's endpoints.
func (s *Segment) LineGeometry(id LineID) geometry.LineSegment {
	if !s.hasLine(id) {
		return geometry.LineSegment{}
	}
	l := s.lines[id]
	return geometry.LineSegment{A: s.Position(l.start), B: s.Position(l.end)}
}

// IsAdded reports whether the anchor is currently part of the board. Pads
// are always added.
func (s *Segment) IsAdded(a AnchorID) bool {
	switch a.Kind {
	case KindNetPoint:
		id := NetPointID(a.Index)
		return s.hasNetPoint(id) && s.points[id].added
	case KindVia:
		id := ViaID(a.Index)
		return s.hasVia(id) && s.vias[id].added
	case KindPad:
		return s.board.hasPad(PadID(a.Index))
	}
	return false
}

func (s *Segment) IsLineAdded(id LineID) bool {
	return s.hasLine(id) && s.lines[id].added
}

func (s *Segment) Position(a AnchorID) geometry.Point {
	switch a.Kind {
	case KindNetPoint:
		if id := NetPointID(a.Index); s.hasNetPoint(id) {
			return s.points[id].pos
		}
	case KindVia:
		if id := ViaID(a.Index); s.hasVia(id) {
			return s.vias[id].pos
		}
	case KindPad:
		return s.board.Pad(PadID(a.Index)).Position
	}
	return geometry.Point{}
}

// AnchorLayer returns the layer an anchor is restricted to, or NoLayer if
// lines of any layer may attach to it.
func (s *Segment) AnchorLayer(a AnchorID) Layer {
	switch a.Kind {
	case KindNetPoint:
		if id := NetPointID(a.Index); s.hasNetPoint(id) {
			return s.points[id].layer
		}
	case KindPad:
		return s.board.Pad(PadID(a.Index)).Layer
	}
	return NoLayer
}

func (s *Segment) AnchorUUID(a AnchorID) uuid.UUID {
	switch a.Kind {
	case KindNetPoint:
		return s.NetPoint(NetPointID(a.Index)).UUID
	case KindVia:
		return s.Via(ViaID(a.Index)).UUID
	case KindPad:
		return s.board.Pad(PadID(a.Index)).UUID
	}
	return uuid.Nil
}

// NetLines returns the added lines attached to a.
func (s *Segment) NetLines(a AnchorID) []LineID {
	return append([]LineID(nil), s.incident[a]...)
}

// NetPoints returns the added net points in arena order.
func (s *Segment) NetPoints() []NetPointID {
	var ids []NetPointID
	for i := range s.points {
		if s.points[i].added {
			ids = append(ids, NetPointID(i))
		}
	}
	return ids
}

func (s *Segment) Vias() []ViaID {
	var ids []ViaID
	for i := range s.vias {
		if s.vias[i].added {
			ids = append(ids, ViaID(i))
		}
	}
	return ids
}

func (s *Segment) Lines() []LineID {
	var ids []LineID
	for i := range s.lines {
		if s.lines[i].added {
			ids = append(ids, LineID(i))
		}
	}
	return ids
}

// Pads returns the pads with at least one line of this segment.
func (s *Segment) Pads() []PadID {
	var ids []PadID
	for a, lines := range s.incident {
		if id, ok := a.Pad(); ok && len(lines) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Segment) IsEmpty() bool {
	return len(s.uuids) == 0
}

// NetPointsAt returns the added net points at exactly pos on layer.
func (s *Segment) NetPointsAt(pos geometry.Point, layer Layer) []NetPointID {
	var ids []NetPointID
	for i := range s.points {
		p := &s.points[i]
		if p.added && p.pos == pos && p.layer == layer {
			ids = append(ids, NetPointID(i))
		}
	}
	return ids
}

// LinesAt returns the added lines on layer whose center line passes
// exactly through pos, endpoints included.
func (s *Segment) LinesAt(pos geometry.Point, layer Layer) []LineID {
	var ids []LineID
	for i := range s.lines {
		l := &s.lines[i]
		if l.added && l.layer == layer && s.LineGeometry(LineID(i)).Contains(pos) {
			ids = append(ids, LineID(i))
		}
	}
	return ids
}

// grabRadius is half the width of the widest line attached to a.
func (s *Segment) grabRadius(a AnchorID) geometry.Length {
	var width geometry.Length
	for _, id := range s.incident[a] {
		width = max(width, s.lines[id].width)
	}
	return width / 2
}

func (s *Segment) connectivity() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range s.points {
		if s.points[i].added {
			g.AddNode(simple.Node(NetPointAnchor(NetPointID(i)).graphNode()))
		}
	}
	for i := range s.vias {
		if s.vias[i].added {
			g.AddNode(simple.Node(ViaAnchor(ViaID(i)).graphNode()))
		}
	}
	for i := range s.lines {
		l := &s.lines[i]
		if !l.added {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(l.start.graphNode()), simple.Node(l.end.graphNode())))
	}
	return g
}

// Components returns the groups of anchors joined by lines. Every added net
// point and via is part of exactly one group; pads only appear once a line
// of this segment is attached to them.
func (s *Segment) Components() [][]AnchorID {
	var comps [][]AnchorID
	for _, nodes := range topo.ConnectedComponents(s.connectivity()) {
		anchors := make([]AnchorID, len(nodes))
		for i, n := range nodes {
			anchors[i] = anchorFromGraphNode(n.ID())
		}
		sort.Slice(anchors, func(i, j int) bool { return anchorLess(anchors[i], anchors[j]) })
		comps = append(comps, anchors)
	}
	sort.Slice(comps, func(i, j int) bool { return anchorLess(comps[i][0], comps[j][0]) })
	return comps
}

func anchorFromGraphNode(id int64) AnchorID {
	return AnchorID{Kind: AnchorKind(id >> 32), Index: int32(uint32(id))}
}

func anchorLess(a, b AnchorID) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Index < b.Index
}
