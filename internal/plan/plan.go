// Waypoint and path plan types shared by all planners
package plan

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"mownav/internal/geo"
)

// Warning tags for soft, non-error plan outcomes.
const WarningAreaTooSmall = "area_too_small"

// Waypoint is one planned motion target in a shape's local frame.
type Waypoint struct {
	Pos     geo.LocalPoint `json:"pos"`
	Speed   float64        `json:"speed"`   // m/s
	Pass    int            `json:"pass"`    // scan line / ring index
	Reverse bool           `json:"reverse"` // true when traversed right-to-left
}

// GeoWaypoint is a waypoint converted back to geographic coordinates for
// export and execution.
type GeoWaypoint struct {
	Pos   geo.GeoPoint `json:"pos"`
	Speed float64      `json:"speed"`
	Pass  int          `json:"pass"`
}

// Plan is the ordered result of a planning operation. The engine hands it to
// the caller and keeps nothing; an empty plan with a Warning is a documented
// soft outcome, not an error.
type Plan struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"` // pattern or planner tag
	Warning   string     `json:"warning,omitempty"`
	Waypoints []Waypoint `json:"waypoints"`
}

// New creates an empty plan tagged with its producing planner or pattern.
func New(source string) *Plan {
	return &Plan{ID: uuid.New().String(), Source: source}
}

// Add appends a waypoint.
func (p *Plan) Add(pos geo.LocalPoint, speed float64, pass int, reverse bool) {
	p.Waypoints = append(p.Waypoints, Waypoint{Pos: pos, Speed: speed, Pass: pass, Reverse: reverse})
}

// Empty reports whether the plan holds no waypoints.
func (p *Plan) Empty() bool { return len(p.Waypoints) == 0 }

// Length returns the total path length in meters.
func (p *Plan) Length() float64 {
	if len(p.Waypoints) < 2 {
		return 0
	}
	segs := make([]float64, len(p.Waypoints)-1)
	for i := 1; i < len(p.Waypoints); i++ {
		segs[i-1] = geo.Dist(p.Waypoints[i-1].Pos, p.Waypoints[i].Pos)
	}
	return floats.Sum(segs)
}

// GeoWaypoints converts the plan into geographic coordinates using the frame
// the source shape was built in.
func (p *Plan) GeoWaypoints(f geo.Frame) []GeoWaypoint {
	out := make([]GeoWaypoint, len(p.Waypoints))
	for i, wp := range p.Waypoints {
		out[i] = GeoWaypoint{Pos: f.ToGeo(wp.Pos), Speed: wp.Speed, Pass: wp.Pass}
	}
	return out
}
