package flock

import (
	"github.com/dhconnelly/rtreego"
)

// pointTolerance is the half size of the box stored for each agent.
const pointTolerance = 1e-6

// R-tree node fan-out.
const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
)

type rtreeEntry struct {
	index int
	rect  rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// RTree indexes the snapshot in an R-tree bulk loaded at every Build.
// Useful for large, unevenly spread flocks where a uniform grid wastes cells.
type RTree struct {
	tree    *rtreego.Rtree
	entries []rtreeEntry
}

// NewRTree returns an empty R-tree index.
func NewRTree() *RTree {
	return &RTree{}
}

// Build implements SpatialIndex.
func (r *RTree) Build(states []State) {
	if cap(r.entries) < len(states) {
		r.entries = make([]rtreeEntry, len(states))
	}
	r.entries = r.entries[:len(states)]

	spatials := make([]rtreego.Spatial, len(states))
	for i := range states {
		p := rtreego.Point{states[i].Position.X, states[i].Position.Y}
		r.entries[i] = rtreeEntry{index: i, rect: p.ToRect(pointTolerance)}
		spatials[i] = &r.entries[i]
	}
	r.tree = rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, spatials...)
}

// NeighborsWithin implements SpatialIndex. The tree returns every entry whose
// box meets the query square, the exact distance check is done here.
func (r *RTree) NeighborsWithin(states []State, self int, radius float64, dst []int) []int {
	dst = dst[:0]
	if radius <= 0 || r.tree == nil {
		return dst
	}
	me := states[self].Position
	query, err := rtreego.NewRect(rtreego.Point{me.X - radius, me.Y - radius}, []float64{2 * radius, 2 * radius})
	if err != nil {
		return dst
	}

	radiusSq := radius * radius
	matches := r.tree.SearchIntersect(query, func(results []rtreego.Spatial, object rtreego.Spatial) (refuse, abort bool) {
		return object.(*rtreeEntry).index == self, false // an agent is not its own neighbor
	})
	for _, m := range matches {
		i := m.(*rtreeEntry).index
		if me.DistanceSquaredTo(states[i].Position) <= radiusSq {
			dst = append(dst, i)
		}
	}
	return dst
}
