package board

import (
	"fmt"

	"github.com/google/uuid"

	"netsimplify/pkg/cfg"
	"netsimplify/pkg/geometry"
)

// batch is a set of arena slots added or removed together.
type batch struct {
	points []NetPointID
	vias   []ViaID
	lines  []LineID
}

func (b *batch) isEmpty() bool {
	return len(b.points) == 0 && len(b.vias) == 0 && len(b.lines) == 0
}

func (s *Segment) reserveNetPoint(id uuid.UUID, pos geometry.Point, layer Layer) NetPointID {
	s.points = append(s.points, netPointSlot{uuid: id, pos: pos, layer: layer})
	return NetPointID(len(s.points) - 1)
}

func (s *Segment) reserveVia(id uuid.UUID, pos geometry.Point, size geometry.Length) ViaID {
	s.vias = append(s.vias, viaSlot{uuid: id, pos: pos, size: size})
	return ViaID(len(s.vias) - 1)
}

func (s *Segment) reserveLine(id uuid.UUID, start, end AnchorID, layer Layer, width geometry.Length) LineID {
	s.lines = append(s.lines, lineSlot{uuid: id, start: start, end: end, layer: layer, width: width})
	return LineID(len(s.lines) - 1)
}

// add validates b, adds it and checks the segment is still cohesive. On any
// failure the segment is left as it was.
func (s *Segment) add(b batch) error {
	if b.isEmpty() {
		return nil
	}
	if err := s.checkAdd(b); err != nil {
		return err
	}
	s.attach(b)
	if err := s.checkCohesion(); err != nil {
		s.detach(b)
		return NewError("add").Entity("segment", s.uuid).Cause(err).Err()
	}
	return nil
}

// remove is the counterpart of add.
func (s *Segment) remove(b batch) error {
	if b.isEmpty() {
		return nil
	}
	if err := s.checkRemove(b); err != nil {
		return err
	}
	s.detach(b)
	if err := s.checkCohesion(); err != nil {
		s.attach(b)
		return NewError("remove").Entity("segment", s.uuid).Cause(err).Err()
	}
	return nil
}

func (s *Segment) checkAdd(b batch) error {
	pending := map[AnchorID]bool{}
	seen := map[uuid.UUID]bool{}
	checkUUID := func(kind string, id uuid.UUID) error {
		_, taken := s.uuids[id]
		if taken || seen[id] {
			return NewError("add").Entity(kind, id).Cause(ErrDuplicateUUID).Err()
		}
		seen[id] = true
		return nil
	}

	for _, id := range b.points {
		if !s.hasNetPoint(id) {
			return NewError("add").Entity("netpoint", uuid.Nil).Context("id %d", id).Cause(ErrUnknownElement).Err()
		}
		p := &s.points[id]
		if p.added {
			return NewError("add").Entity("netpoint", p.uuid).Cause(ErrAlreadyAdded).Err()
		}
		if err := checkUUID("netpoint", p.uuid); err != nil {
			return err
		}
		pending[NetPointAnchor(id)] = true
	}
	for _, id := range b.vias {
		if !s.hasVia(id) {
			return NewError("add").Entity("via", uuid.Nil).Context("id %d", id).Cause(ErrUnknownElement).Err()
		}
		v := &s.vias[id]
		if v.added {
			return NewError("add").Entity("via", v.uuid).Cause(ErrAlreadyAdded).Err()
		}
		if err := checkUUID("via", v.uuid); err != nil {
			return err
		}
		pending[ViaAnchor(id)] = true
	}
	for _, id := range b.lines {
		if !s.hasLine(id) {
			return NewError("add").Entity("line", uuid.Nil).Context("id %d", id).Cause(ErrUnknownElement).Err()
		}
		l := &s.lines[id]
		if l.added {
			return NewError("add").Entity("line", l.uuid).Cause(ErrAlreadyAdded).Err()
		}
		if err := checkUUID("line", l.uuid); err != nil {
			return err
		}
		if l.start == l.end {
			return NewError("add").Entity("line", l.uuid).Context("anchor %s", l.start).Cause(ErrDegenerateLine).Err()
		}
		if l.width < cfg.MinTraceWidth {
			return NewError("add").Entity("line", l.uuid).Context("width %d", l.width).Cause(ErrInvalidWidth).Err()
		}
		for _, a := range [2]AnchorID{l.start, l.end} {
			if err := s.checkEndpoint(a, l.layer, pending); err != nil {
				return NewError("add").Entity("line", l.uuid).Context("endpoint %s", a).Cause(err).Err()
			}
		}
	}
	return nil
}

func (s *Segment) checkEndpoint(a AnchorID, layer Layer, pending map[AnchorID]bool) error {
	switch a.Kind {
	case KindNetPoint:
		id := NetPointID(a.Index)
		if !s.hasNetPoint(id) {
			return ErrUnknownElement
		}
		if !s.points[id].added && !pending[a] {
			return ErrNotAdded
		}
		if s.points[id].layer != layer {
			return fmt.Errorf("%w: line on %q, net point on %q", ErrLayerMismatch, layer, s.points[id].layer)
		}
	case KindVia:
		id := ViaID(a.Index)
		if !s.hasVia(id) {
			return ErrUnknownElement
		}
		if !s.vias[id].added && !pending[a] {
			return ErrNotAdded
		}
	case KindPad:
		id := PadID(a.Index)
		if !s.board.hasPad(id) {
			return ErrUnknownElement
		}
		pad := s.board.pads[id]
		if pad.Net != s.net {
			return ErrForeignPad
		}
		if pad.Layer != NoLayer && pad.Layer != layer {
			return fmt.Errorf("%w: line on %q, pad on %q", ErrLayerMismatch, layer, pad.Layer)
		}
	default:
		return ErrUnknownElement
	}
	return nil
}

func (s *Segment) checkRemove(b batch) error {
	removing := map[LineID]bool{}
	for _, id := range b.lines {
		if !s.hasLine(id) {
			return NewError("remove").Entity("line", uuid.Nil).Context("id %d", id).Cause(ErrUnknownElement).Err()
		}
		if !s.lines[id].added || removing[id] {
			return NewError("remove").Entity("line", s.lines[id].uuid).Cause(ErrNotAdded).Err()
		}
		removing[id] = true
	}
	inUse := func(a AnchorID) bool {
		for _, l := range s.incident[a] {
			if !removing[l] {
				return true
			}
		}
		return false
	}

	seenPoints := map[NetPointID]bool{}
	for _, id := range b.points {
		if !s.hasNetPoint(id) {
			return NewError("remove").Entity("netpoint", uuid.Nil).Context("id %d", id).Cause(ErrUnknownElement).Err()
		}
		if !s.points[id].added || seenPoints[id] {
			return NewError("remove").Entity("netpoint", s.points[id].uuid).Cause(ErrNotAdded).Err()
		}
		seenPoints[id] = true
		if inUse(NetPointAnchor(id)) {
			return NewError("remove").Entity("netpoint", s.points[id].uuid).Cause(ErrAnchorInUse).Err()
		}
	}
	seenVias := map[ViaID]bool{}
	for _, id := range b.vias {
		if !s.hasVia(id) {
			return NewError("remove").Entity("via", uuid.Nil).Context("id %d", id).Cause(ErrUnknownElement).Err()
		}
		if !s.vias[id].added || seenVias[id] {
			return NewError("remove").Entity("via", s.vias[id].uuid).Cause(ErrNotAdded).Err()
		}
		seenVias[id] = true
		if inUse(ViaAnchor(id)) {
			return NewError("remove").Entity("via", s.vias[id].uuid).Cause(ErrAnchorInUse).Err()
		}
	}
	return nil
}

// attach marks a validated batch as added and indexes it.
func (s *Segment) attach(b batch) {
	for _, id := range b.points {
		p := &s.points[id]
		p.added = true
		s.uuids[p.uuid] = struct{}{}
		s.board.tree.add(p.pos, treeKey{segment: s, anchor: NetPointAnchor(id)}, 0)
	}
	for _, id := range b.vias {
		v := &s.vias[id]
		v.added = true
		s.uuids[v.uuid] = struct{}{}
		s.board.tree.add(v.pos, treeKey{segment: s, anchor: ViaAnchor(id)}, v.size/2)
	}
	for _, id := range b.lines {
		l := &s.lines[id]
		l.added = true
		s.uuids[l.uuid] = struct{}{}
		s.incident[l.start] = append(s.incident[l.start], id)
		s.incident[l.end] = append(s.incident[l.end], id)
		// net points are hit within half the widest line width
		s.board.tree.grow(l.width / 2)
	}
}

// detach undoes attach. Lines go first so anchors are free when removed.
func (s *Segment) detach(b batch) {
	for _, id := range b.lines {
		l := &s.lines[id]
		l.added = false
		delete(s.uuids, l.uuid)
		s.unlink(l.start, id)
		s.unlink(l.end, id)
	}
	for _, id := range b.points {
		p := &s.points[id]
		p.added = false
		delete(s.uuids, p.uuid)
		s.board.tree.remove(p.pos, treeKey{segment: s, anchor: NetPointAnchor(id)})
	}
	for _, id := range b.vias {
		v := &s.vias[id]
		v.added = false
		delete(s.uuids, v.uuid)
		s.board.tree.remove(v.pos, treeKey{segment: s, anchor: ViaAnchor(id)})
	}
}

func (s *Segment) unlink(a AnchorID, line LineID) {
	lines := s.incident[a]
	for i, id := range lines {
		if id == line {
			lines = append(lines[:i:i], lines[i+1:]...)
			break
		}
	}
	if len(lines) == 0 {
		delete(s.incident, a)
		return
	}
	s.incident[a] = lines
}

// checkCohesion verifies that all net points and vias of the segment are
// connected, directly or through pads. Vias without any line are ignored so
// a via can be placed before it is wired.
func (s *Segment) checkCohesion() error {
	var parts int
	for _, comp := range s.Components() {
		if len(comp) == 1 && comp[0].Kind == KindVia {
			continue
		}
		for _, a := range comp {
			if a.Kind != KindPad {
				parts++
				break
			}
		}
	}
	if parts > 1 {
		return fmt.Errorf("%w: %d separate parts", ErrNotCohesive, parts)
	}
	return nil
}
