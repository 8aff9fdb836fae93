package flock

import "math"

// MinCellSize keeps the grid from degenerating into tiny cells.
const MinCellSize = 0.5

type gridKey struct {
	x, y int
}

// Grid is a uniform spatial hash rebuilt every tick.
// The cell size follows the largest neighborhood radius of the snapshot so a
// typical query touches a 3x3 block of cells.
type Grid struct {
	cellSize float64
	cells    map[gridKey][]int
}

// NewGrid returns an empty grid index.
func NewGrid() *Grid {
	return &Grid{
		cellSize: MinCellSize,
		cells:    make(map[gridKey][]int),
	}
}

// Build implements SpatialIndex.
func (g *Grid) Build(states []State) {
	// Reset slices to length 0 but keep their capacity, the flock usually
	// occupies the same cells from one tick to the next.
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}

	g.cellSize = MinCellSize
	for i := range states {
		g.cellSize = math.Max(g.cellSize, states[i].Params.NeighborhoodRadius)
	}

	for i := range states {
		key := g.keyOf(states[i].Position.X, states[i].Position.Y)
		g.cells[key] = append(g.cells[key], i)
	}

	// drop the cells the flock has left, the world is unbounded
	for k, ids := range g.cells {
		if len(ids) == 0 {
			delete(g.cells, k)
		}
	}
}

// NeighborsWithin implements SpatialIndex. It scans only the cells overlapped
// by the square of side 2*radius centred on the agent.
func (g *Grid) NeighborsWithin(states []State, self int, radius float64, dst []int) []int {
	dst = dst[:0]
	if radius <= 0 {
		return dst
	}
	radiusSq := radius * radius
	me := states[self].Position

	minKey := g.keyOf(me.X-radius, me.Y-radius)
	maxKey := g.keyOf(me.X+radius, me.Y+radius)

	for gx := minKey.x; gx <= maxKey.x; gx++ {
		for gy := minKey.y; gy <= maxKey.y; gy++ {
			for _, i := range g.cells[gridKey{x: gx, y: gy}] {
				if i == self {
					continue
				}
				if me.DistanceSquaredTo(states[i].Position) <= radiusSq {
					dst = append(dst, i)
				}
			}
		}
	}
	return dst
}

// CellSize returns the cell size chosen by the last Build.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) keyOf(x, y float64) gridKey {
	// Floor, not int(), so that -0.5 and 0.5 land in different cells.
	return gridKey{
		x: int(math.Floor(x / g.cellSize)),
		y: int(math.Floor(y / g.cellSize)),
	}
}
