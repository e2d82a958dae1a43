package mowsim

import (
	"math"
	"strings"
	"testing"
	"time"

	"mownav/internal/export"
	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
)

type captureWriter struct {
	rows []export.RunRow
}

func (c *captureWriter) WriteRun(row export.RunRow) error {
	c.rows = append(c.rows, row)
	return nil
}

func squareShape(t *testing.T) *geofence.Shape {
	t.Helper()
	boundary := []geo.GeoPoint{
		{Lat: 48.2000, Lon: 16.3700},
		{Lat: 48.2000, Lon: 16.3700 + 20/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180))},
		{Lat: 48.2000 + 20/geo.MetersPerDegreeLat, Lon: 16.3700 + 20/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180))},
		{Lat: 48.2000 + 20/geo.MetersPerDegreeLat, Lon: 16.3700},
	}
	s, err := geofence.BuildShape(boundary, nil, 0.5)
	if err != nil {
		t.Fatalf("BuildShape: %v", err)
	}
	return s
}

func linePlan(speed float64, points ...geo.LocalPoint) *plan.Plan {
	p := plan.New("test")
	for _, pt := range points {
		p.Add(pt, speed, 0, false)
	}
	return p
}

func TestSimulator_CompletesPlan(t *testing.T) {
	shape := squareShape(t)
	p := linePlan(1.0, geo.LocalPoint{X: 2, Y: 2}, geo.LocalPoint{X: 12, Y: 2}, geo.LocalPoint{X: 12, Y: 7})

	w := &captureWriter{}
	sim := New(shape, p, w, time.Second, 0.1)

	var last export.RunRow
	for i := 0; i < 100 && !sim.Finished(); i++ {
		last = sim.Step(1.0)
	}
	if !sim.Finished() {
		t.Fatal("simulator did not finish plan")
	}
	if last.Status != export.StatusDone {
		t.Fatalf("final status = %q, want %q", last.Status, export.StatusDone)
	}
	end := geo.LocalPoint{X: last.X, Y: last.Y}
	if geo.Dist(end, geo.LocalPoint{X: 12, Y: 7}) > 1e-9 {
		t.Fatalf("final position %v, want (12,7)", end)
	}
	// 15m at 1 m/s with 0.1 %/m drain
	if last.Battery > 98.6 || last.Battery < 98.4 {
		t.Fatalf("battery = %.2f, want about 98.5", last.Battery)
	}
}

func TestSimulator_DrainFollowsDistance(t *testing.T) {
	shape := squareShape(t)
	// 2m plan finished inside a single oversized tick: only the 2m
	// actually driven drains the battery, not the full speed*dt budget.
	p := linePlan(1.0, geo.LocalPoint{X: 2, Y: 2}, geo.LocalPoint{X: 4, Y: 2})

	sim := New(shape, p, &captureWriter{}, time.Second, 1.0)
	row := sim.Step(10.0)
	if row.Status != export.StatusDone {
		t.Fatalf("status = %q, want %q", row.Status, export.StatusDone)
	}
	if math.Abs(row.Battery-98.0) > 1e-9 {
		t.Fatalf("battery = %.3f, want 98.0 after 2m at 1 %%/m", row.Battery)
	}
	// Further steps with the plan done must not drain anything.
	if row = sim.Step(10.0); math.Abs(row.Battery-98.0) > 1e-9 {
		t.Fatalf("battery drained to %.3f after plan completion", row.Battery)
	}
}

func TestSimulator_SpeedAdvancesPosition(t *testing.T) {
	shape := squareShape(t)
	p := linePlan(0.5, geo.LocalPoint{X: 2, Y: 10}, geo.LocalPoint{X: 18, Y: 10})

	sim := New(shape, p, &captureWriter{}, time.Second, 0)
	row := sim.Step(4.0)
	if math.Abs(row.X-4.0) > 1e-9 || math.Abs(row.Y-10) > 1e-9 {
		t.Fatalf("after 4s at 0.5 m/s expected (4,10), got (%.3f,%.3f)", row.X, row.Y)
	}
	if row.Status != export.StatusMowing {
		t.Fatalf("status = %q, want %q", row.Status, export.StatusMowing)
	}
}

func TestSimulator_ViolationDetected(t *testing.T) {
	shape := squareShape(t)
	// Plan deliberately leaves the boundary.
	p := linePlan(1.0, geo.LocalPoint{X: 18, Y: 10}, geo.LocalPoint{X: 30, Y: 10})

	sim := New(shape, p, &captureWriter{}, time.Second, 0)
	var sawViolation bool
	for i := 0; i < 20 && !sim.Finished(); i++ {
		if sim.Step(1.0).Status == export.StatusViolation {
			sawViolation = true
			break
		}
	}
	if !sawViolation {
		t.Fatal("expected a violation status once outside the boundary")
	}
}

func TestSimulator_LowBattery(t *testing.T) {
	shape := squareShape(t)
	p := linePlan(1.0, geo.LocalPoint{X: 2, Y: 2}, geo.LocalPoint{X: 18, Y: 2})

	sim := New(shape, p, &captureWriter{}, time.Second, 10)
	var sawLow bool
	for i := 0; i < 16 && !sim.Finished(); i++ {
		if sim.Step(1.0).Status == export.StatusLowBattery {
			sawLow = true
			break
		}
	}
	if !sawLow {
		t.Fatal("expected low_battery status before plan completion")
	}
}

func TestReplayRun(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	input := `{"run_id":"r1","plan_id":"p1","lat":48.2,"lon":16.37,"x":1,"y":2,"battery":90,"status":"mowing","ts":"1970-01-01T00:00:00Z"}
{"run_id":"r1","plan_id":"p1","lat":48.2,"lon":16.37,"x":2,"y":2,"battery":89,"status":"done","ts":"1970-01-01T00:00:01Z"}
`
	w := &captureWriter{}
	if err := ReplayRun(strings.NewReader(input), w, 0); err != nil {
		t.Fatalf("ReplayRun: %v", err)
	}
	if len(w.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(w.rows))
	}
	if w.rows[0].Timestamp != ts || w.rows[1].Status != export.StatusDone {
		t.Fatalf("unexpected rows: %#v", w.rows)
	}
}
