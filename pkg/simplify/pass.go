package simplify

import (
	"fmt"

	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
	"netsimplify/pkg/undo"
)

// pass simplifies one segment, appending its commands to the open group of
// stack.
type pass struct {
	stack   *undo.Stack
	segment *board.Segment
	stats   Stats
}

func (p *pass) run() error {
	steps := []func() error{
		p.removeDuplicateLines,
		p.combineDuplicateNetPoints,
		p.connectNetPoints,
		p.connectVias,
		p.connectPads,
		p.removeDuplicateLines,
		p.collapseChains,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) exec(cmd undo.Command) error {
	return p.stack.AppendToGroup(cmd)
}

// removeDuplicateLines removes every line that joins the same two anchors
// on the same layer as an earlier line.
func (p *pass) removeDuplicateLines() error {
	s := p.segment
	for _, id := range s.Lines() {
		if !s.IsLineAdded(id) {
			continue
		}
		line := s.Line(id)
		rm := board.NewRemoveElements(s)
		for _, other := range s.NetLines(line.Start) {
			if other == id {
				continue
			}
			o := s.Line(other)
			if o.OtherPoint(line.Start) == line.End && o.Layer == line.Layer {
				rm.RemoveNetLine(other)
				p.stats.DuplicateLinesRemoved++
			}
		}
		if err := p.exec(rm); err != nil {
			return err
		}
	}
	return nil
}

type pointKey struct {
	pos   geometry.Point
	layer board.Layer
}

// combineDuplicateNetPoints merges net points sharing position and layer.
// The first net point seen for a key is kept.
func (p *pass) combineDuplicateNetPoints() error {
	s := p.segment
	keep := map[pointKey]board.AnchorID{}
	for _, id := range s.NetPoints() {
		a := board.NetPointAnchor(id)
		if !s.IsAdded(a) {
			continue
		}
		np := s.NetPoint(id)
		key := pointKey{pos: np.Position, layer: np.Layer}
		k, ok := keep[key]
		if !ok {
			keep[key] = a
			continue
		}
		kept, err := p.combine(a, k)
		if err != nil {
			return err
		}
		keep[key] = kept
	}
	return nil
}

// connectNetPoints joins each net point to the lines of its layer running
// through it.
func (p *pass) connectNetPoints() error {
	s := p.segment
	for _, id := range s.NetPoints() {
		a := board.NetPointAnchor(id)
		if !s.IsAdded(a) {
			continue
		}
		np := s.NetPoint(id)
		onLayer := func(l board.Layer) bool { return l == np.Layer }
		if err := p.joinLinesAt(a, np.Position, onLayer); err != nil {
			return err
		}
	}
	return nil
}

// connectVias merges the net points at each via into it and joins the via
// to the lines running through it, on any layer.
func (p *pass) connectVias() error {
	s := p.segment
	anyLayer := func(board.Layer) bool { return true }
	for _, id := range s.Vias() {
		a := board.ViaAnchor(id)
		pos := s.Via(id).Position
		if err := p.absorbNetPointsAt(a, pos, anyLayer); err != nil {
			return err
		}
		if err := p.joinLinesAt(a, pos, anyLayer); err != nil {
			return err
		}
	}
	return nil
}

// connectPads does for the pads of the segment's net what connectVias does
// for vias. Pads restricted to a layer only take geometry on that layer.
func (p *pass) connectPads() error {
	s := p.segment
	b := s.Board()
	for _, id := range b.PadsOfNetSignal(s.NetSignal()) {
		a := board.PadAnchor(id)
		pad := b.Pad(id)
		onPadLayer := func(l board.Layer) bool { return pad.Layer == board.NoLayer || l == pad.Layer }
		if err := p.absorbNetPointsAt(a, pad.Position, onPadLayer); err != nil {
			return err
		}
		if err := p.joinLinesAt(a, pad.Position, onPadLayer); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) absorbNetPointsAt(anchor board.AnchorID, pos geometry.Point, match func(board.Layer) bool) error {
	s := p.segment
	for _, id := range s.NetPoints() {
		np := s.NetPoint(id)
		if np.Position != pos || !match(np.Layer) {
			continue
		}
		if _, err := p.combine(board.NetPointAnchor(id), anchor); err != nil {
			return err
		}
	}
	return nil
}

// joinLinesAt splits the lines passing exactly through pos and merges the
// split points into anchor. Lines already attached to anchor, and lines
// with an endpoint at pos, are left alone.
func (p *pass) joinLinesAt(anchor board.AnchorID, pos geometry.Point, match func(board.Layer) bool) error {
	s := p.segment
	var crossing []board.LineID
	for _, id := range s.Lines() {
		line := s.Line(id)
		if !match(line.Layer) || line.HasEndpoint(anchor) {
			continue
		}
		geom := s.LineGeometry(id)
		if geom.A == pos || geom.B == pos || !geom.Contains(pos) {
			continue
		}
		crossing = append(crossing, id)
	}

	for _, id := range crossing {
		split := NewSplitLine(s, id, pos)
		if err := p.exec(split); err != nil {
			return err
		}
		p.stats.LinesSplit++
		if _, err := p.combine(split.SplitPoint(), anchor); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) combine(remove, keep board.AnchorID) (board.AnchorID, error) {
	cmd, err := NewCombineAnchors(p.segment, remove, keep)
	if err != nil {
		return board.AnchorID{}, err
	}
	if err := p.exec(cmd); err != nil {
		return board.AnchorID{}, err
	}
	if !cmd.IsEmpty() {
		p.stats.NetPointsCombined++
	}
	return cmd.KeepAnchor(), nil
}

// collapseChains replaces net points sitting exactly on the straight line
// between their two neighbours by a single line. Removing duplicates may
// free new candidates, so both repeat until nothing collapses.
func (p *pass) collapseChains() error {
	for {
		n, err := p.collapseOnce()
		if err != nil {
			return err
		}
		if err := p.removeDuplicateLines(); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func (p *pass) collapseOnce() (int, error) {
	s := p.segment
	collapsed := 0
	for _, id := range s.NetPoints() {
		a := board.NetPointAnchor(id)
		add := board.NewAddElements(s)
		rm := board.NewRemoveElements(s)

		if lines := s.NetLines(a); s.IsAdded(a) && len(lines) == 2 {
			l0, l1 := s.Line(lines[0]), s.Line(lines[1])
			if l0.Layer != l1.Layer {
				return collapsed, fmt.Errorf("%w: net point %s joins lines on %q and %q",
					board.ErrLayerMismatch, s.NetPoint(id).UUID, l0.Layer, l1.Layer)
			}
			start, end := l0.OtherPoint(a), l1.OtherPoint(a)
			straight := geometry.LineSegment{A: s.Position(start), B: s.Position(end)}
			if l0.Width == l1.Width && start != end && straight.Contains(s.NetPoint(id).Position) {
				add.AddNetLine(start, end, l0.Layer, l0.Width)
				rm.RemoveNetLine(lines[0])
				rm.RemoveNetLine(lines[1])
				rm.RemoveNetPoint(id)
				collapsed++
			}
		}

		// both are appended even when empty
		if err := p.exec(add); err != nil {
			return collapsed, err
		}
		if err := p.exec(rm); err != nil {
			return collapsed, err
		}
	}
	p.stats.ChainsCollapsed += collapsed
	return collapsed, nil
}
