package simplify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
)

func TestCombineTieBreak(t *testing.T) {
	b, s := newFixture()
	add := board.NewAddElements(s)
	v := board.ViaAnchor(add.AddVia(pt(0, 0), mm))
	n := board.NetPointAnchor(add.AddNetPoint(pt(0, 0), top))
	m := board.NetPointAnchor(add.AddNetPoint(pt(1, 0), top))
	add.AddNetLine(v, m, top, width)
	add.AddNetLine(n, m, top, width)
	mustDo(t, add)
	pad := board.PadAnchor(b.AddPad(board.Pad{Name: "1", Position: pt(0, 0), Width: mm, Height: mm, Net: s.NetSignal()}))

	tests := []struct {
		name         string
		remove, keep board.AnchorID
		wantKeep     board.AnchorID
		wantErr      error
	}{
		{"net point into via", n, v, v, nil},
		{"via into net point swaps", v, n, v, nil},
		{"net point into net point", n, m, m, nil},
		{"identical", v, v, v, nil},
		{"via and pad", v, pad, board.AnchorID{}, ErrNoRemovableAnchor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := NewCombineAnchors(s, tt.remove, tt.keep)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.True(t, board.IsLogicError(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantKeep, cmd.KeepAnchor())
		})
	}
}

func TestCombineRewiresLines(t *testing.T) {
	_, s := newFixture()
	add := board.NewAddElements(s)
	v := board.ViaAnchor(add.AddVia(pt(0, 0), mm))
	n := board.NetPointAnchor(add.AddNetPoint(pt(0, 0), top))
	x := board.NetPointAnchor(add.AddNetPoint(pt(3, 0), top))
	y := board.NetPointAnchor(add.AddNetPoint(pt(0, 3), top))
	add.AddNetLine(n, v, top, width)
	add.AddNetLine(n, x, top, width)
	add.AddNetLine(y, n, top, 2*width)
	mustDo(t, add)
	before := snapshot(s)

	cmd, err := NewCombineAnchors(s, v, n)
	require.NoError(t, err)
	require.Equal(t, n, cmd.RemovedAnchor())
	require.NoError(t, cmd.Do())

	require.False(t, s.IsAdded(n))
	want := []lineDesc{
		{A: pt(0, 0), B: pt(0, 3), Layer: top, Width: 2 * width},
		{A: pt(0, 0), B: pt(3, 0), Layer: top, Width: width},
	}
	if diff := cmp.Diff(want, describeLines(s)); diff != "" {
		t.Errorf("incorrect lines: %s", diff)
	}
	for _, id := range s.Lines() {
		require.True(t, s.Line(id).HasEndpoint(v), "every line ends at the via")
	}

	require.NoError(t, cmd.Undo())
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("undo did not restore the segment: %s", diff)
	}
}

func TestCombineFailureChangesNothing(t *testing.T) {
	b, s := newFixture()
	add := board.NewAddElements(s)
	v := board.ViaAnchor(add.AddVia(pt(0, 0), mm))
	x := board.NetPointAnchor(add.AddNetPoint(pt(2, 0), top))
	add.AddNetLine(v, x, top, width)
	mustDo(t, add)
	pad := board.PadAnchor(b.AddPad(board.Pad{Name: "1", Position: pt(0, 0), Width: mm, Height: mm, Net: s.NetSignal()}))
	before := snapshot(s)

	_, err := NewCombineAnchors(s, pad, v)
	require.ErrorIs(t, err, ErrNoRemovableAnchor)
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("segment changed: %s", diff)
	}
}

func TestSplitLine(t *testing.T) {
	_, s := newFixture()
	add := board.NewAddElements(s)
	a := board.NetPointAnchor(add.AddNetPoint(pt(0, 0), top))
	b := board.NetPointAnchor(add.AddNetPoint(pt(4, 0), top))
	line := add.AddNetLine(a, b, top, width)
	mustDo(t, add)

	split := NewSplitLine(s, line, pt(1, 0))
	require.False(t, s.IsAdded(split.SplitPoint()), "nothing happens before Do")
	require.NoError(t, split.Do())

	require.True(t, s.IsAdded(split.SplitPoint()))
	require.False(t, s.IsLineAdded(line))
	require.Equal(t, pt(1, 0), s.Position(split.SplitPoint()))
	want := []lineDesc{
		{A: pt(0, 0), B: pt(1, 0), Layer: top, Width: width},
		{A: pt(1, 0), B: pt(4, 0), Layer: top, Width: width},
	}
	if diff := cmp.Diff(want, describeLines(s)); diff != "" {
		t.Errorf("incorrect lines: %s", diff)
	}

	require.NoError(t, split.Undo())
	require.True(t, s.IsLineAdded(line))
	require.False(t, s.IsAdded(split.SplitPoint()))
}

func TestFindNetSignals(t *testing.T) {
	b := board.New("test")
	vcc := b.AddNetSignal("VCC")
	gnd := b.AddNetSignal("GND")
	b.AddPad(board.Pad{Name: "nc", Position: pt(0, 0), Width: mm, Height: mm})
	b.AddPad(board.Pad{Name: "vcc", Position: pt(0, 0), Width: 2 * mm, Height: 2 * mm, Net: vcc})

	s := b.NewSegment(gnd)
	add := board.NewAddElements(s)
	v := add.AddVia(pt(0, 0), mm)
	x := board.NetPointAnchor(add.AddNetPoint(pt(5, 0), top))
	add.AddNetLine(board.ViaAnchor(v), x, top, width)
	mustDo(t, add)
	viaUUID := s.Via(v).UUID

	tests := []struct {
		pos     geometry.Point
		exclude []uuid.UUID
		want    []string
	}{
		{pt(0, 0), nil, []string{"GND", "VCC"}},
		{pt(0, 0), []uuid.UUID{viaUUID}, []string{"GND", "VCC"}}, // the line still covers the via
		{pt(3, 0), nil, []string{"GND"}},
		{pt(3, 0), []uuid.UUID{s.Line(s.Lines()[0]).UUID}, nil},
		{pt(20, 20), nil, nil},
	}
	for i, tt := range tests {
		var names []string
		for _, ns := range FindNetSignals(b, tt.pos, tt.exclude...) {
			names = append(names, ns.Name)
		}
		if diff := cmp.Diff(tt.want, names); diff != "" {
			t.Errorf("Test %d - incorrect net signals: %s", i, diff)
		}
	}
}
