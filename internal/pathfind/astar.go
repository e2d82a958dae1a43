// Obstacle-aware A* search over a discretized free-space grid
package pathfind

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
)

// DefaultMaxCells bounds grid size when Params.MaxCells is zero. The ceiling
// is a hard safety valve for memory and latency; callers wanting finer grids
// over large areas must raise it deliberately.
const DefaultMaxCells = 250_000

var (
	// ErrInvalidStartOrGoal marks endpoints with no free cell within one
	// grid cell radius. Bad input, surfaced immediately.
	ErrInvalidStartOrGoal = errors.New("invalid start or goal")
	// ErrInvalidResolution marks a non-positive cell size. Bad input,
	// surfaced immediately.
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrNoPathFound means the search exhausted the open set. Recoverable:
	// retry coarser, alert, or hold position.
	ErrNoPathFound = errors.New("no path found")
	// ErrGridTooLarge means bounding box area over resolution² exceeded the
	// cell ceiling. Recoverable by retrying with a coarser resolution.
	ErrGridTooLarge = errors.New("grid too large")
)

// Params configures a grid search.
type Params struct {
	Resolution float64 // meters per cell
	MaxCells   int     // 0 means DefaultMaxCells
	Speed      float64 // m/s attached to result waypoints
}

// FindPath runs 8-connected A* from start to goal over shape's free space.
// Cells are free iff their center passes the buffered containment test.
// Returned waypoints are pruned of collinear intermediates.
func FindPath(shape *geofence.Shape, start, goal geo.LocalPoint, p Params) (*plan.Plan, error) {
	g, err := newGrid(shape, p)
	if err != nil {
		return nil, err
	}
	sc, ok := g.snap(start)
	if !ok {
		return nil, fmt.Errorf("%w: start %+v has no free cell nearby", ErrInvalidStartOrGoal, start)
	}
	gc, ok := g.snap(goal)
	if !ok {
		return nil, fmt.Errorf("%w: goal %+v has no free cell nearby", ErrInvalidStartOrGoal, goal)
	}

	cells, err := g.search(sc, gc)
	if err != nil {
		return nil, err
	}
	cells = pruneCollinear(cells)

	out := plan.New("astar")
	for _, c := range cells {
		out.Add(g.center(c), p.Speed, 0, false)
	}
	return out, nil
}

// search is the A* core. Ties on f are broken by insertion order (FIFO) so
// results are deterministic.
func (g *grid) search(start, goal cell) ([]cell, error) {
	open := &openHeap{}
	heap.Init(open)
	gScore := map[cell]float64{start: 0}
	cameFrom := map[cell]cell{}
	closed := map[cell]bool{}
	seq := 0
	push := func(c cell, gCost float64) {
		heap.Push(open, openItem{c: c, f: gCost + g.heuristic(c, goal), seq: seq})
		seq++
	}
	push(start, 0)

	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem).c
		if closed[cur] {
			continue
		}
		if cur == goal {
			return reconstruct(cameFrom, cur), nil
		}
		closed[cur] = true

		for _, step := range neighborSteps {
			next := cell{col: cur.col + step.dc, row: cur.row + step.dr}
			if !g.inBounds(next) || closed[next] || !g.free(next) {
				continue
			}
			cost := gScore[cur] + step.cost*g.res
			if old, seen := gScore[next]; seen && old <= cost {
				continue
			}
			gScore[next] = cost
			cameFrom[next] = cur
			push(next, cost)
		}
	}
	return nil, ErrNoPathFound
}

var neighborSteps = []struct {
	dc, dr int
	cost   float64
}{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

func reconstruct(cameFrom map[cell]cell, c cell) []cell {
	path := []cell{c}
	for {
		prev, ok := cameFrom[c]
		if !ok {
			break
		}
		path = append(path, prev)
		c = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// pruneCollinear removes intermediate cells on straight runs without changing
// the traversed corridor.
func pruneCollinear(cells []cell) []cell {
	if len(cells) < 3 {
		return cells
	}
	out := cells[:2:2]
	for _, c := range cells[2:] {
		a, b := out[len(out)-2], out[len(out)-1]
		// The absorbed run b-a spans several cells while c-b is a unit step,
		// so compare directions, not raw deltas: zero cross product and a
		// positive dot product mean c continues the run.
		dc1, dr1 := b.col-a.col, b.row-a.row
		dc2, dr2 := c.col-b.col, c.row-b.row
		if dc1*dr2 == dr1*dc2 && dc1*dc2+dr1*dr2 > 0 {
			out[len(out)-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

// openItem orders the open set by f, then insertion sequence.
type openItem struct {
	c   cell
	f   float64
	seq int
}

type openHeap []openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(openItem)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
