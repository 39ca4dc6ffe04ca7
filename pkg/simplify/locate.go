package simplify

import (
	"github.com/google/uuid"

	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
)

// FindNetSignals returns the distinct net signals of the vias, net points,
// lines and pads at pos, ordered by name. Items whose UUID is in exclude
// are ignored, as are pads without a net signal.
func FindNetSignals(b *board.Board, pos geometry.Point, exclude ...uuid.UUID) []*board.NetSignal {
	skip := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	seen := map[*board.NetSignal]bool{}
	var nets []*board.NetSignal
	for _, hits := range [][]board.Item{
		b.ViasAt(pos),
		b.NetPointsAt(pos),
		b.LinesAt(pos),
		b.PadsAt(pos),
	} {
		for _, it := range hits {
			if skip[it.UUID] || it.Net == nil || seen[it.Net] {
				continue
			}
			seen[it.Net] = true
			nets = append(nets, it.Net)
		}
	}
	board.SortNetSignals(nets)
	return nets
}
