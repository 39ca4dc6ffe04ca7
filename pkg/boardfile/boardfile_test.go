package boardfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
)

const demo = `
name: demo
nets: [GND, VCC]
pads:
  - {name: U1.1, net: GND, position: [0, 0], size: [1000000, 1000000], layer: top}
  - {name: U1.2, net: VCC, position: [0, 5000000], size: [1000000, 1000000]}
segments:
  - net: GND
    vias:
      - {id: v1, position: [10000000, 0], size: 600000}
    points:
      - {id: p1, position: [5000000, 0], layer: top}
      - {id: p2, position: [10000000, 0], layer: bottom}
      - {id: p3, position: [10000000, 4000000], layer: bottom}
    lines:
      - {from: pad:U1.1, to: p1, layer: top, width: 200000}
      - {from: p1, to: v1, layer: top, width: 200000}
      - {from: v1, to: p3, layer: bottom, width: 300000}
      - {from: p2, to: p3, layer: bottom, width: 300000}
`

func TestLoad(t *testing.T) {
	b, err := Load(strings.NewReader(demo))
	require.NoError(t, err)
	require.Equal(t, "demo", b.Name())
	require.Len(t, b.NetSignals(), 2)
	require.Len(t, b.Pads(), 2)

	gnd := b.NetSignalByName("GND")
	require.NotNil(t, gnd)
	segs := b.SegmentsOf(gnd)
	require.Len(t, segs, 1)
	s := segs[0]
	require.Len(t, s.Vias(), 1)
	require.Len(t, s.NetPoints(), 3)
	require.Len(t, s.Lines(), 4)
	require.Equal(t, []board.PadID{0}, s.Pads())

	pad := b.Pad(b.PadsOfNetSignal(b.NetSignalByName("VCC"))[0])
	require.Equal(t, "U1.2", pad.Name)
	require.Equal(t, board.NoLayer, pad.Layer)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed", "name: [", "parse board file"},
		{"unknown field", "name: x\ncolour: red\n", "colour"},
		{"missing layer", `
nets: [N]
segments:
  - net: N
    points: [{id: a, position: [0, 0]}]
`, "Layer"},
		{"zero width", `
nets: [N]
segments:
  - net: N
    points: [{id: a, position: [0, 0], layer: top}, {id: b, position: [1, 0], layer: top}]
    lines: [{from: a, to: b, layer: top, width: 0}]
`, "Width"},
		{"unknown net", `
nets: [N]
segments: [{net: M}]
`, `unknown net "M"`},
		{"unknown anchor", `
nets: [N]
segments:
  - net: N
    points: [{id: a, position: [0, 0], layer: top}]
    lines: [{from: a, to: b, layer: top, width: 1}]
`, `unknown anchor "b"`},
		{"unknown pad", `
nets: [N]
segments:
  - net: N
    points: [{id: a, position: [0, 0], layer: top}]
    lines: [{from: a, to: "pad:X", layer: top, width: 1}]
`, `unknown pad "X"`},
		{"duplicate id", `
nets: [N]
segments:
  - net: N
    points: [{id: a, position: [0, 0], layer: top}, {id: a, position: [1, 0], layer: top}]
`, "defined twice"},
		{"not cohesive", `
nets: [N]
segments:
  - net: N
    points:
      - {id: a, position: [0, 0], layer: top}
      - {id: b, position: [1, 0], layer: top}
      - {id: c, position: [5, 0], layer: top}
      - {id: d, position: [6, 0], layer: top}
    lines:
      - {from: a, to: b, layer: top, width: 1}
      - {from: c, to: d, layer: top, width: 1}
`, "not cohesive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	b, err := Load(strings.NewReader(demo))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, SaveFile(path, b))
	again, err := LoadFile(path)
	require.NoError(t, err)

	want, err := FromBoard(b)
	require.NoError(t, err)
	got, err := FromBoard(again)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("board changed across save and load: %s", diff)
	}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, again))
	require.Contains(t, buf.String(), "from: pad:U1.1")
}

func TestSaveRefusesSegmentWithoutNet(t *testing.T) {
	b := board.New("orphan")
	s := b.NewSegment(nil)
	add := board.NewAddElements(s)
	p := add.AddNetPoint(geometry.Point{}, "top")
	q := add.AddNetPoint(geometry.Point{X: geometry.Millimeter}, "top")
	add.AddNetLine(board.NetPointAnchor(p), board.NetPointAnchor(q), "top", 200000)
	require.NoError(t, add.Do())

	var buf bytes.Buffer
	err := Save(&buf, b)
	require.ErrorIs(t, err, ErrNoNetSignal)
	require.Empty(t, buf.String())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
