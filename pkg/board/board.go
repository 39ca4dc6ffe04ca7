// Package board holds the connectivity graph of a printed circuit board:
// net signals, pads, and the net segments made of net points, vias and the
// lines joining them.
//
// Net points, vias and lines are owned by the arenas of their segment and
// referred to by index. Arena slots are never reused. Removing an element
// only marks its slot as not added, so undo can add the very same element
// back. All mutations go through AddElements and RemoveElements, which apply
// a whole batch or nothing.
package board

import (
	"sort"

	"github.com/google/uuid"

	"netsimplify/pkg/cfg"
	"netsimplify/pkg/geometry"
)

// NetSignal is one electrical net.
type NetSignal struct {
	UUID uuid.UUID
	Name string
}

// Pad is a footprint pad. Pads are placed by devices and are never deleted
// by net segment edits, only connected to and disconnected from.
type Pad struct {
	ID       PadID
	UUID     uuid.UUID
	Name     string
	Position geometry.Point
	Width    geometry.Length
	Height   geometry.Length
	// Layer is NoLayer for through-hole pads.
	Layer Layer
	// Net is nil if the pad is not connected to any net signal.
	Net *NetSignal
}

func (p Pad) Rect() geometry.Rectangle {
	return geometry.RectAround(p.Position, p.Width/2, p.Height/2)
}

type Board struct {
	name     string
	nets     []*NetSignal
	pads     []Pad
	segments []*Segment
	tree     *anchorTree
}

// New returns an empty board whose spatial index covers cfg.BoardExtent.
func New(name string) *Board {
	return &Board{
		name: name,
		tree: newAnchorTree(cfg.BoardExtent),
	}
}

func (b *Board) Name() string { return b.name }

func (b *Board) AddNetSignal(name string) *NetSignal {
	ns := &NetSignal{UUID: uuid.New(), Name: name}
	b.nets = append(b.nets, ns)
	return ns
}

func (b *Board) NetSignals() []*NetSignal {
	return append([]*NetSignal(nil), b.nets...)
}

func (b *Board) NetSignalByName(name string) *NetSignal {
	for _, ns := range b.nets {
		if ns.Name == name {
			return ns
		}
	}
	return nil
}

// AddPad places a pad. A nil UUID is replaced by a fresh one.
func (b *Board) AddPad(p Pad) PadID {
	p.ID = PadID(len(b.pads))
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	b.pads = append(b.pads, p)
	b.tree.add(p.Position, treeKey{anchor: PadAnchor(p.ID)}, max(p.Width, p.Height)/2)
	return p.ID
}

func (b *Board) hasPad(id PadID) bool {
	return id >= 0 && int(id) < len(b.pads)
}

// Pad returns the pad with the given ID, or the zero Pad.
func (b *Board) Pad(id PadID) Pad {
	if !b.hasPad(id) {
		return Pad{}
	}
	return b.pads[id]
}

func (b *Board) Pads() []PadID {
	ids := make([]PadID, len(b.pads))
	for i := range b.pads {
		ids[i] = PadID(i)
	}
	return ids
}

func (b *Board) PadsOfNetSignal(ns *NetSignal) []PadID {
	var ids []PadID
	for i := range b.pads {
		if ns != nil && b.pads[i].Net == ns {
			ids = append(ids, PadID(i))
		}
	}
	return ids
}

// NewSegment adds an empty net segment of ns to the board.
func (b *Board) NewSegment(ns *NetSignal) *Segment {
	return b.NewSegmentWithUUID(uuid.New(), ns)
}

func (b *Board) NewSegmentWithUUID(id uuid.UUID, ns *NetSignal) *Segment {
	s := &Segment{
		uuid:     id,
		index:    len(b.segments),
		board:    b,
		net:      ns,
		incident: map[AnchorID][]LineID{},
		uuids:    map[uuid.UUID]struct{}{},
	}
	b.segments = append(b.segments, s)
	return s
}

func (b *Board) Segments() []*Segment {
	return append([]*Segment(nil), b.segments...)
}

func (b *Board) SegmentsOf(ns *NetSignal) []*Segment {
	var segs []*Segment
	for _, s := range b.segments {
		if s.net == ns {
			segs = append(segs, s)
		}
	}
	return segs
}

type ItemKind uint8

const (
	ItemVia ItemKind = iota + 1
	ItemNetPoint
	ItemLine
	ItemPad
)

// Item is a board element found by a position query.
type Item struct {
	Kind    ItemKind
	UUID    uuid.UUID
	Segment *Segment // nil for pads
	Anchor  AnchorID // zero for lines
	Line    LineID
	// Net is the net signal of the segment, or of the pad. Pads that are
	// not connected to anything have a nil Net.
	Net *NetSignal
}

// ViasAt returns the vias whose circle contains pos.
func (b *Board) ViasAt(pos geometry.Point) []Item {
	var items []Item
	for _, key := range b.tree.near(pos) {
		id, ok := key.anchor.Via()
		if !ok || key.segment == nil {
			continue
		}
		v := key.segment.Via(id)
		if pos.Distance(v.Position) <= float64(v.Size)/2 {
			items = append(items, Item{Kind: ItemVia, UUID: v.UUID, Segment: key.segment, Anchor: key.anchor, Net: key.segment.net})
		}
	}
	return items
}

// NetPointsAt returns the net points whose grab area contains pos. The grab
// area is as wide as the widest line attached to the point.
func (b *Board) NetPointsAt(pos geometry.Point) []Item {
	var items []Item
	for _, key := range b.tree.near(pos) {
		id, ok := key.anchor.NetPoint()
		if !ok || key.segment == nil {
			continue
		}
		np := key.segment.NetPoint(id)
		if pos.Distance(np.Position) <= float64(key.segment.grabRadius(key.anchor)) {
			items = append(items, Item{Kind: ItemNetPoint, UUID: np.UUID, Segment: key.segment, Anchor: key.anchor, Net: key.segment.net})
		}
	}
	return items
}

// LinesAt returns the lines whose copper covers pos. The anchor index holds
// points only, so this scans every added line of every segment, rejecting
// most by bounding box.
func (b *Board) LinesAt(pos geometry.Point) []Item {
	var items []Item
	for _, s := range b.segments {
		for _, id := range s.Lines() {
			l := s.Line(id)
			geom := s.LineGeometry(id)
			if !geom.Bounds().Grow(l.Width / 2).Contains(pos) {
				continue
			}
			if geom.Distance(pos) <= float64(l.Width)/2 {
				items = append(items, Item{Kind: ItemLine, UUID: l.UUID, Segment: s, Line: id, Net: s.net})
			}
		}
	}
	return items
}

// PadsAt returns the pads whose rectangle contains pos.
func (b *Board) PadsAt(pos geometry.Point) []Item {
	var items []Item
	for _, key := range b.tree.near(pos) {
		id, ok := key.anchor.Pad()
		if !ok {
			continue
		}
		pad := b.pads[id]
		if pad.Rect().Contains(pos) {
			items = append(items, Item{Kind: ItemPad, UUID: pad.UUID, Anchor: key.anchor, Net: pad.Net})
		}
	}
	return items
}

// SortNetSignals orders nets by name, then UUID, in place.
func SortNetSignals(nets []*NetSignal) {
	sort.Slice(nets, func(i, j int) bool {
		if nets[i].Name != nets[j].Name {
			return nets[i].Name < nets[j].Name
		}
		return nets[i].UUID.String() < nets[j].UUID.String()
	})
}
