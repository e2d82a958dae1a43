package export

import (
	"time"

	"mownav/internal/geo"
	"mownav/internal/plan"
)

// BuildRows converts a plan into its summary row and one row per waypoint.
func BuildRows(p *plan.Plan, frame geo.Frame, pattern string, ts time.Time) (PlanRow, []WaypointRow) {
	summary := PlanRow{
		PlanID:    p.ID,
		Source:    p.Source,
		Pattern:   pattern,
		Waypoints: len(p.Waypoints),
		LengthM:   p.Length(),
		Warning:   p.Warning,
		Timestamp: ts,
	}
	rows := make([]WaypointRow, len(p.Waypoints))
	for i, wp := range p.Waypoints {
		g := frame.ToGeo(wp.Pos)
		rows[i] = WaypointRow{
			PlanID:    p.ID,
			Seq:       i,
			Lat:       g.Lat,
			Lon:       g.Lon,
			X:         wp.Pos.X,
			Y:         wp.Pos.Y,
			Speed:     wp.Speed,
			Pass:      wp.Pass,
			Reverse:   wp.Reverse,
			Timestamp: ts,
		}
	}
	return summary, rows
}
