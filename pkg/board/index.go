package board

import (
	"sort"

	"github.com/asim/quadtree"

	"netsimplify/pkg/geometry"
)

// treeKey is one anchor stored in the tree. Pads have no segment.
type treeKey struct {
	segment *Segment
	anchor  AnchorID
}

// anchorTree finds anchors around a position. Each quadtree point holds the
// set of anchors located at exactly its coordinates.
type anchorTree struct {
	quadTree *quadtree.QuadTree
	// outside holds anchors the quadtree refused because they lie beyond
	// its boundary.
	outside map[treeKey]geometry.Point
	// maxRadius is the largest hit radius of anything ever added; searches
	// extend this far around the query position.
	maxRadius geometry.Length
}

func newAnchorTree(extent geometry.Length) *anchorTree {
	half := float64(extent)
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(0, 0, nil),
		quadtree.NewPoint(half, half, nil))
	return &anchorTree{
		quadTree: quadtree.New(aabb, 0, nil),
		outside:  map[treeKey]geometry.Point{},
	}
}

func (t *anchorTree) find(pos geometry.Point) *quadtree.Point {
	x, y := float64(pos.X), float64(pos.Y)
	exact := quadtree.NewAABB(
		quadtree.NewPoint(x, y, nil),
		quadtree.NewPoint(0.5, 0.5, nil))
	for _, point := range t.quadTree.Search(exact) {
		px, py := point.Coordinates()
		if px == x && py == y {
			return point
		}
	}
	return nil
}

func (t *anchorTree) grow(radius geometry.Length) {
	if radius > t.maxRadius {
		t.maxRadius = radius
	}
}

func (t *anchorTree) add(pos geometry.Point, key treeKey, radius geometry.Length) {
	t.grow(radius)
	if point := t.find(pos); point != nil {
		keys := point.Data().(map[treeKey]struct{})
		keys[key] = struct{}{}
		return
	}
	keys := map[treeKey]struct{}{key: {}}
	if !t.quadTree.Insert(quadtree.NewPoint(float64(pos.X), float64(pos.Y), keys)) {
		t.outside[key] = pos
	}
}

func (t *anchorTree) remove(pos geometry.Point, key treeKey) {
	delete(t.outside, key)
	point := t.find(pos)
	if point == nil {
		return
	}
	keys := point.Data().(map[treeKey]struct{})
	delete(keys, key)
	if len(keys) == 0 {
		t.quadTree.Remove(point)
	}
}

// near returns every anchor whose position is within maxRadius of pos in
// both axes, ordered by segment and anchor.
func (t *anchorTree) near(pos geometry.Point) []treeKey {
	r := t.maxRadius + 1
	box := quadtree.NewAABB(
		quadtree.NewPoint(float64(pos.X), float64(pos.Y), nil),
		quadtree.NewPoint(float64(r), float64(r), nil))

	var found []treeKey
	for _, point := range t.quadTree.Search(box) {
		for key := range point.Data().(map[treeKey]struct{}) {
			found = append(found, key)
		}
	}
	area := geometry.RectAround(pos, r, r)
	for key, p := range t.outside {
		if area.Contains(p) {
			found = append(found, key)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		si, sj := found[i].segment.order(), found[j].segment.order()
		if si != sj {
			return si < sj
		}
		return anchorLess(found[i].anchor, found[j].anchor)
	})
	return found
}
