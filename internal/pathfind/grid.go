// Implicit occupancy grid over a geofence shape
package pathfind

import (
	"fmt"
	"math"

	"mownav/internal/geo"
	"mownav/internal/geofence"
)

type cell struct {
	col, row int
}

// grid discretizes the shape's bounding box. Occupancy is evaluated lazily
// per cell against the buffered containment test; nothing is precomputed, so
// memory stays bounded by the search frontier, while the cell-count ceiling
// still caps worst-case work.
type grid struct {
	shape      *geofence.Shape
	minX, minY float64
	cols, rows int
	res        float64
}

func newGrid(shape *geofence.Shape, p Params) (*grid, error) {
	if p.Resolution <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResolution, p.Resolution)
	}
	maxCells := p.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	min, max := shape.Bounds()
	cols := int(math.Ceil((max.X-min.X)/p.Resolution)) + 1
	rows := int(math.Ceil((max.Y-min.Y)/p.Resolution)) + 1
	if cols*rows > maxCells {
		return nil, fmt.Errorf("%w: %d cells exceed ceiling %d at resolution %vm",
			ErrGridTooLarge, cols*rows, maxCells, p.Resolution)
	}
	return &grid{shape: shape, minX: min.X, minY: min.Y, cols: cols, rows: rows, res: p.Resolution}, nil
}

func (g *grid) inBounds(c cell) bool {
	return c.col >= 0 && c.col < g.cols && c.row >= 0 && c.row < g.rows
}

func (g *grid) center(c cell) geo.LocalPoint {
	return geo.LocalPoint{X: g.minX + float64(c.col)*g.res, Y: g.minY + float64(c.row)*g.res}
}

func (g *grid) free(c cell) bool {
	return g.shape.Contains(g.center(c), true)
}

func (g *grid) heuristic(c, goal cell) float64 {
	return geo.Dist(g.center(c), g.center(goal))
}

// snap maps p onto its nearest free cell, looking at most one cell out in
// every direction. Candidates are scanned in a fixed order and ranked by
// distance to p, so snapping is deterministic.
func (g *grid) snap(p geo.LocalPoint) (cell, bool) {
	base := cell{
		col: int(math.Round((p.X - g.minX) / g.res)),
		row: int(math.Round((p.Y - g.minY) / g.res)),
	}
	best := cell{}
	bestDist := math.Inf(1)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			c := cell{col: base.col + dc, row: base.row + dr}
			if !g.inBounds(c) || !g.free(c) {
				continue
			}
			if d := geo.Dist(p, g.center(c)); d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
