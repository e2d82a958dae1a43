package route

import (
	"errors"
	"math"
	"testing"

	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/pathfind"
)

func yardShape(t *testing.T, buffer float64, zones []geofence.Zone) *geofence.Shape {
	t.Helper()
	boundary := []geo.GeoPoint{
		{Lat: 48.2000, Lon: 16.3700},
		{Lat: 48.2000, Lon: 16.3700 + 20/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180))},
		{Lat: 48.2000 + 20/geo.MetersPerDegreeLat, Lon: 16.3700 + 20/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180))},
		{Lat: 48.2000 + 20/geo.MetersPerDegreeLat, Lon: 16.3700},
	}
	s, err := geofence.BuildShape(boundary, zones, buffer)
	if err != nil {
		t.Fatalf("BuildShape: %v", err)
	}
	return s
}

func circleZone(s *geofence.Shape, x, y, r float64) geofence.Zone {
	c := s.Frame().ToGeo(geo.LocalPoint{X: x, Y: y})
	return geofence.CircleZone(c, r)
}

func TestBoundaryFollow(t *testing.T) {
	s := yardShape(t, 1.0, nil)
	p, err := BoundaryFollow(s, 0.4)
	if err != nil {
		t.Fatalf("BoundaryFollow: %v", err)
	}
	if len(p.Waypoints) != 5 {
		t.Fatalf("expected 4 vertices plus closing point, got %d", len(p.Waypoints))
	}
	first := p.Waypoints[0].Pos
	last := p.Waypoints[len(p.Waypoints)-1].Pos
	if geo.Dist(first, last) > 1e-9 {
		t.Fatalf("loop not closed: %v vs %v", first, last)
	}
	for i, wp := range p.Waypoints {
		for _, want := range []float64{wp.Pos.X, 20 - wp.Pos.X, wp.Pos.Y, 20 - wp.Pos.Y} {
			if want < 1.0-1e-6 {
				t.Fatalf("waypoint %d at %v closer than buffer to boundary", i, wp.Pos)
			}
		}
	}
}

func TestBoundaryFollow_BufferTooLarge(t *testing.T) {
	s := yardShape(t, 15.0, nil)
	if _, err := BoundaryFollow(s, 0.4); !errors.Is(err, geofence.ErrInvalidBoundary) {
		t.Fatalf("expected ErrInvalidBoundary, got %v", err)
	}
}

func TestReturnToBase_Direct(t *testing.T) {
	s := yardShape(t, 0.5, []geofence.Zone{})
	params := pathfind.Params{Resolution: 0.5, Speed: 0.5}
	p, state, err := ReturnToBase(s, geo.LocalPoint{X: 15, Y: 3}, geo.LocalPoint{X: 2, Y: 3}, params)
	if err != nil {
		t.Fatalf("ReturnToBase: %v", err)
	}
	if state != StateDirectPath {
		t.Fatalf("expected StateDirectPath, got %q", state)
	}
	if len(p.Waypoints) != 2 {
		t.Fatalf("direct path should be two waypoints, got %d", len(p.Waypoints))
	}
	if p.Source != "return_direct" {
		t.Fatalf("unexpected source %q", p.Source)
	}
}

func TestReturnToBase_GridFallback(t *testing.T) {
	s := yardShape(t, 0.5, nil)
	s, err := s.WithObstacles([]geofence.Zone{circleZone(s, 10, 10, 3)})
	if err != nil {
		t.Fatalf("WithObstacles: %v", err)
	}

	current := geo.LocalPoint{X: 15, Y: 15}
	home := geo.LocalPoint{X: 2, Y: 2}
	params := pathfind.Params{Resolution: 0.5, Speed: 0.5}

	p, state, err := ReturnToBase(s, current, home, params)
	if err != nil {
		t.Fatalf("ReturnToBase: %v", err)
	}
	if state != StateGridPath {
		t.Fatalf("expected StateGridPath, got %q", state)
	}
	if p.Source != "return_grid" {
		t.Fatalf("unexpected source %q", p.Source)
	}
	if len(p.Waypoints) <= 2 {
		t.Fatalf("grid path around obstacle should bend, got %d waypoints", len(p.Waypoints))
	}
	direct := geo.Dist(current, home)
	if p.Length() <= direct {
		t.Fatalf("detour length %.2f not longer than direct %.2f", p.Length(), direct)
	}
	for i := 0; i+1 < len(p.Waypoints); i++ {
		a, b := p.Waypoints[i].Pos, p.Waypoints[i+1].Pos
		steps := int(geo.Dist(a, b)/0.1) + 1
		for k := 0; k <= steps; k++ {
			f := float64(k) / float64(steps)
			pt := geo.LocalPoint{X: a.X + f*(b.X-a.X), Y: a.Y + f*(b.Y-a.Y)}
			if geo.Dist(pt, geo.LocalPoint{X: 10, Y: 10}) < 3-1e-6 {
				t.Fatalf("path enters obstacle at %v", pt)
			}
		}
	}
}

func TestReturnToBase_Failed(t *testing.T) {
	s := yardShape(t, 0.5, nil)
	wall := s.Frame()
	zone := geofence.PolygonZone([]geo.GeoPoint{
		wall.ToGeo(geo.LocalPoint{X: -1, Y: 9}),
		wall.ToGeo(geo.LocalPoint{X: 21, Y: 9}),
		wall.ToGeo(geo.LocalPoint{X: 21, Y: 11}),
		wall.ToGeo(geo.LocalPoint{X: -1, Y: 11}),
	})
	s, err := s.WithObstacles([]geofence.Zone{zone})
	if err != nil {
		t.Fatalf("WithObstacles: %v", err)
	}

	_, state, err := ReturnToBase(s, geo.LocalPoint{X: 10, Y: 15}, geo.LocalPoint{X: 10, Y: 2},
		pathfind.Params{Resolution: 0.5, Speed: 0.5})
	if state != StateFailed {
		t.Fatalf("expected StateFailed, got %q", state)
	}
	if !errors.Is(err, pathfind.ErrNoPathFound) {
		t.Fatalf("expected ErrNoPathFound, got %v", err)
	}
}
