package rrt

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Nearest-neighbor strategies. The linear scan is the default; the R-tree
// becomes worthwhile once iteration budgets grow past a few thousand nodes.
// The two strategies may pick different nodes within exact distance ties.
const (
	IndexLinear = "linear"
	IndexRTree  = "rtree"
)

type nnIndex interface {
	insert(id int, p orb.Point)
	nearest(p orb.Point) int
}

// linearIndex scans the whole arena on every query.
type linearIndex struct {
	tree *Tree
}

func (l *linearIndex) insert(int, orb.Point) {}

func (l *linearIndex) nearest(p orb.Point) int {
	best := 0
	bestD := planar.DistanceSquared(l.tree.At(0).Pos, p)
	for i := 1; i < l.tree.Len(); i++ {
		if d := planar.DistanceSquared(l.tree.At(i).Pos, p); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// nodeEntry wraps an arena index for R-tree storage.
type nodeEntry struct {
	id   int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *nodeEntry) Bounds() rtreego.Rect { return e.rect }

type rtreeIndex struct {
	rt *rtreego.Rtree
}

// pointExtent is the side length of the degenerate rectangle a tree node
// occupies in the R-tree; rtreego rejects zero-area rectangles.
const pointExtent = 1e-9

func newRTreeIndex(root orb.Point) *rtreeIndex {
	idx := &rtreeIndex{rt: rtreego.NewTree(2, 25, 50)}
	idx.insert(0, root)
	return idx
}

func (r *rtreeIndex) insert(id int, p orb.Point) {
	rect, err := rtreego.NewRect(
		rtreego.Point{p[0] - pointExtent/2, p[1] - pointExtent/2},
		[]float64{pointExtent, pointExtent},
	)
	if err != nil {
		return
	}
	r.rt.Insert(&nodeEntry{id: id, rect: rect})
}

func (r *rtreeIndex) nearest(p orb.Point) int {
	return r.rt.NearestNeighbor(rtreego.Point{p[0], p[1]}).(*nodeEntry).id
}
