package board

import "fmt"

// Layer names a copper layer. NoLayer means all copper layers.
type Layer string

const NoLayer Layer = ""

// AnchorKind is the closed set of things a net line can end at.
type AnchorKind uint8

const (
	KindNetPoint AnchorKind = iota + 1
	KindVia
	KindPad
)

func (k AnchorKind) String() string {
	switch k {
	case KindNetPoint:
		return "netpoint"
	case KindVia:
		return "via"
	case KindPad:
		return "pad"
	}
	return "unknown"
}

type (
	// NetPointID indexes a segment's net point arena.
	NetPointID int32
	// ViaID indexes a segment's via arena.
	ViaID int32
	// LineID indexes a segment's line arena.
	LineID int32
	// PadID indexes the board's pad table.
	PadID int32
)

// AnchorID refers to a net point or via of a segment, or to a pad of the
// board. The zero value refers to nothing.
type AnchorID struct {
	Kind  AnchorKind
	Index int32
}

func NetPointAnchor(id NetPointID) AnchorID { return AnchorID{Kind: KindNetPoint, Index: int32(id)} }

func ViaAnchor(id ViaID) AnchorID { return AnchorID{Kind: KindVia, Index: int32(id)} }

func PadAnchor(id PadID) AnchorID { return AnchorID{Kind: KindPad, Index: int32(id)} }

// NetPoint returns the net point this anchor refers to. Only net points can
// be deleted by combining anchors.
func (a AnchorID) NetPoint() (NetPointID, bool) {
	return NetPointID(a.Index), a.Kind == KindNetPoint
}

func (a AnchorID) Via() (ViaID, bool) {
	return ViaID(a.Index), a.Kind == KindVia
}

func (a AnchorID) Pad() (PadID, bool) {
	return PadID(a.Index), a.Kind == KindPad
}

func (a AnchorID) IsZero() bool { return a.Kind == 0 }

func (a AnchorID) String() string {
	if a.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s#%d", a.Kind, a.Index)
}

// graphNode maps the anchor onto a gonum node ID.
func (a AnchorID) graphNode() int64 {
	return int64(a.Kind)<<32 | int64(uint32(a.Index))
}
