// Boundary-follow and return-to-base planning
package route

import (
	"fmt"
	"math"

	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/pathfind"
	"mownav/internal/plan"
)

// State names the terminal outcome of a return-to-base attempt:
// Idle -> DirectCheck -> DirectPath, or DirectCheck -> GridSearch ->
// GridPath | Failed.
type State string

const (
	StateIdle        State = "idle"
	StateDirectCheck State = "direct_check"
	StateDirectPath  State = "direct_path"
	StateGridSearch  State = "grid_search"
	StateGridPath    State = "grid_path"
	StateFailed      State = "failed"
)

// BoundaryFollow walks the outer boundary vertices inset by the safety
// buffer, in original vertex order and closed back to the start. Used for
// perimeter trimming passes.
func BoundaryFollow(shape *geofence.Shape, speed float64) (*plan.Plan, error) {
	ring := geofence.Inset(shape.Outer(), shape.Buffer())
	if len(ring) < 3 {
		return nil, fmt.Errorf("%w: buffer leaves no perimeter to follow", geofence.ErrInvalidBoundary)
	}
	p := plan.New("boundary_follow")
	for _, v := range ring {
		p.Add(v, speed, 0, false)
	}
	p.Add(ring[0], speed, 0, false)
	return p, nil
}

// ReturnToBase plans a path from current to home. The direct segment is
// sampled first; only when a sample fails buffered containment does the grid
// search run. The returned state is terminal: DirectPath, GridPath, or
// Failed (with the pathfinder error).
func ReturnToBase(shape *geofence.Shape, current, home geo.LocalPoint, params pathfind.Params) (*plan.Plan, State, error) {
	if directClear(shape, current, home, params.Resolution/2) {
		p := plan.New("return_direct")
		p.Add(current, params.Speed, 0, false)
		p.Add(home, params.Speed, 0, false)
		return p, StateDirectPath, nil
	}
	p, err := pathfind.FindPath(shape, current, home, params)
	if err != nil {
		return nil, StateFailed, err
	}
	p.Source = "return_grid"
	return p, StateGridPath, nil
}

// directClear samples the segment every step meters (endpoints included)
// against the buffered containment test.
func directClear(shape *geofence.Shape, a, b geo.LocalPoint, step float64) bool {
	if step <= 0 {
		step = 0.25
	}
	n := int(math.Ceil(geo.Dist(a, b)/step)) + 1
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		p := geo.LocalPoint{X: a.X + f*(b.X-a.X), Y: a.Y + f*(b.Y-a.Y)}
		if !shape.Contains(p, true) {
			return false
		}
	}
	return true
}
