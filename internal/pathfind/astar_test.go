package pathfind

import (
	"errors"
	"testing"

	"mownav/internal/geo"
	"mownav/internal/geofence"
)

func yardShape(t *testing.T, zones []geofence.Zone, buffer float64) *geofence.Shape {
	t.Helper()
	f := geo.NewFrame(geo.GeoPoint{Lat: 48.2, Lon: 16.37})
	boundary := []geo.GeoPoint{
		f.ToGeo(geo.LocalPoint{X: 0, Y: 0}),
		f.ToGeo(geo.LocalPoint{X: 20, Y: 0}),
		f.ToGeo(geo.LocalPoint{X: 20, Y: 20}),
		f.ToGeo(geo.LocalPoint{X: 0, Y: 20}),
	}
	s, err := geofence.BuildShape(boundary, zones, buffer)
	if err != nil {
		t.Fatalf("BuildShape: %v", err)
	}
	return s
}

func rectZone(t *testing.T, x0, y0, x1, y1 float64) geofence.Zone {
	t.Helper()
	f := geo.NewFrame(geo.GeoPoint{Lat: 48.2, Lon: 16.37})
	return geofence.PolygonZone([]geo.GeoPoint{
		f.ToGeo(geo.LocalPoint{X: x0, Y: y0}),
		f.ToGeo(geo.LocalPoint{X: x1, Y: y0}),
		f.ToGeo(geo.LocalPoint{X: x1, Y: y1}),
		f.ToGeo(geo.LocalPoint{X: x0, Y: y1}),
	})
}

func TestFindPath_OpenField(t *testing.T) {
	s := yardShape(t, nil, 0)
	p, err := FindPath(s, geo.LocalPoint{X: 1, Y: 1}, geo.LocalPoint{X: 19, Y: 1}, Params{Resolution: 0.5, Speed: 0.5})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	// Straight run collapses to its two endpoints after pruning.
	if len(p.Waypoints) != 2 {
		t.Fatalf("expected pruned straight path, got %d waypoints", len(p.Waypoints))
	}
}

func TestPruneCollinear_LongRun(t *testing.T) {
	// A straight run of unit steps collapses to its endpoints even after
	// the first coalesce widens the trailing delta.
	cells := make([]cell, 20)
	for i := range cells {
		cells[i] = cell{col: i, row: 3}
	}
	out := pruneCollinear(cells)
	if len(out) != 2 || out[0] != cells[0] || out[1] != cells[19] {
		t.Fatalf("expected endpoints only, got %v", out)
	}

	// A reversal is a turn, not a continuation.
	back := []cell{{col: 0, row: 0}, {col: 1, row: 0}, {col: 2, row: 0}, {col: 1, row: 0}}
	if got := pruneCollinear(back); len(got) != 3 {
		t.Fatalf("expected reversal kept as turn, got %v", got)
	}
}

func TestFindPath_AvoidsRectZone(t *testing.T) {
	s := yardShape(t, []geofence.Zone{rectZone(t, 8, 8, 12, 12)}, 0)
	start, goal := geo.LocalPoint{X: 1, Y: 1}, geo.LocalPoint{X: 19, Y: 19}
	p, err := FindPath(s, start, goal, Params{Resolution: 0.5, Speed: 0.5})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	// Sample every segment densely: the polyline must not enter the zone.
	for i := 1; i < len(p.Waypoints); i++ {
		a, b := p.Waypoints[i-1].Pos, p.Waypoints[i].Pos
		steps := int(geo.Dist(a, b)/0.1) + 1
		for j := 0; j <= steps; j++ {
			f := float64(j) / float64(steps)
			x, y := a.X+f*(b.X-a.X), a.Y+f*(b.Y-a.Y)
			if x > 8 && x < 12 && y > 8 && y < 12 {
				t.Fatalf("path enters zone at (%v,%v)", x, y)
			}
		}
	}
	// Admissibility: never shorter than the straight line.
	if p.Length() < geo.Dist(start, goal) {
		t.Fatalf("path length %v shorter than straight-line %v", p.Length(), geo.Dist(start, goal))
	}
	// Every waypoint stays in buffered free space.
	for _, wp := range p.Waypoints {
		if !s.Contains(wp.Pos, true) {
			t.Fatalf("waypoint %+v not contained", wp.Pos)
		}
	}
}

func TestFindPath_InvalidStartOrGoal(t *testing.T) {
	s := yardShape(t, []geofence.Zone{rectZone(t, 6, 6, 14, 14)}, 0)
	_, err := FindPath(s, geo.LocalPoint{X: 10, Y: 10}, geo.LocalPoint{X: 1, Y: 1}, Params{Resolution: 0.5})
	if !errors.Is(err, ErrInvalidStartOrGoal) {
		t.Fatalf("expected ErrInvalidStartOrGoal, got %v", err)
	}
	_, err = FindPath(s, geo.LocalPoint{X: 1, Y: 1}, geo.LocalPoint{X: 100, Y: 100}, Params{Resolution: 0.5})
	if !errors.Is(err, ErrInvalidStartOrGoal) {
		t.Fatalf("expected ErrInvalidStartOrGoal for goal outside bounds, got %v", err)
	}
}

func TestFindPath_InvalidResolution(t *testing.T) {
	s := yardShape(t, nil, 0)
	for _, res := range []float64{0, -0.5} {
		_, err := FindPath(s, geo.LocalPoint{X: 1, Y: 1}, geo.LocalPoint{X: 19, Y: 19}, Params{Resolution: res})
		if !errors.Is(err, ErrInvalidResolution) {
			t.Fatalf("resolution %v: expected ErrInvalidResolution, got %v", res, err)
		}
	}
}

func TestFindPath_NoPath(t *testing.T) {
	// Wall across the full yard width separates start and goal.
	s := yardShape(t, []geofence.Zone{rectZone(t, -1, 9, 21, 11)}, 0)
	_, err := FindPath(s, geo.LocalPoint{X: 10, Y: 2}, geo.LocalPoint{X: 10, Y: 18}, Params{Resolution: 0.5})
	if !errors.Is(err, ErrNoPathFound) {
		t.Fatalf("expected ErrNoPathFound, got %v", err)
	}
}

func TestFindPath_GridTooLarge(t *testing.T) {
	s := yardShape(t, nil, 0)
	_, err := FindPath(s, geo.LocalPoint{X: 1, Y: 1}, geo.LocalPoint{X: 19, Y: 19}, Params{Resolution: 0.01, MaxCells: 10_000})
	if !errors.Is(err, ErrGridTooLarge) {
		t.Fatalf("expected ErrGridTooLarge, got %v", err)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	s := yardShape(t, []geofence.Zone{rectZone(t, 8, 8, 12, 12)}, 0.25)
	run := func() []geo.LocalPoint {
		p, err := FindPath(s, geo.LocalPoint{X: 1, Y: 1}, geo.LocalPoint{X: 19, Y: 19}, Params{Resolution: 0.5})
		if err != nil {
			t.Fatalf("FindPath: %v", err)
		}
		out := make([]geo.LocalPoint, len(p.Waypoints))
		for i, wp := range p.Waypoints {
			out[i] = wp.Pos
		}
		return out
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
