package flock

import "fmt"

// SpatialIndex answers "who is within radius of this agent" over a tick snapshot.
//
// Build is called once per tick with the snapshot; NeighborsWithin may then be
// called concurrently. It appends to dst[:0] the indices of every other state
// whose distance to states[self] is <= radius, in no particular order.
// A radius <= 0 yields an empty result.
type SpatialIndex interface {
	Build(states []State)
	NeighborsWithin(states []State, self int, radius float64, dst []int) []int
}

// BruteForce scans the whole snapshot for every query. Fine for small flocks.
type BruteForce struct{}

// NewBruteForce returns the O(n) index.
func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

// Build is a no-op, the snapshot itself is the index.
func (b *BruteForce) Build([]State) {}

// NeighborsWithin implements SpatialIndex.
func (b *BruteForce) NeighborsWithin(states []State, self int, radius float64, dst []int) []int {
	dst = dst[:0]
	if radius <= 0 {
		return dst
	}
	radiusSq := radius * radius
	me := states[self].Position
	for i := range states {
		if i == self {
			continue
		}
		if me.DistanceSquaredTo(states[i].Position) <= radiusSq {
			dst = append(dst, i)
		}
	}
	return dst
}

// IndexName returns the name NewIndex knows idx by, or its Go type otherwise.
func IndexName(idx SpatialIndex) string {
	switch idx.(type) {
	case *BruteForce:
		return "brute"
	case *Grid:
		return "grid"
	case *RTree:
		return "rtree"
	default:
		return fmt.Sprintf("%T", idx)
	}
}

// NewIndex returns the index registered under name: "brute", "grid" or "rtree".
// An empty name selects the grid.
func NewIndex(name string) (SpatialIndex, error) {
	switch name {
	case "brute":
		return NewBruteForce(), nil
	case "", "grid":
		return NewGrid(), nil
	case "rtree":
		return NewRTree(), nil
	default:
		return nil, fmt.Errorf("unknown spatial index %q", name)
	}
}
