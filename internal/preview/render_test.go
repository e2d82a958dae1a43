package preview

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mownav/internal/export"
	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
)

func testShape(t *testing.T) *geofence.Shape {
	t.Helper()
	boundary := []geo.GeoPoint{
		{Lat: 48.2000, Lon: 16.3700},
		{Lat: 48.2000, Lon: 16.3700 + 20/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180))},
		{Lat: 48.2000 + 20/geo.MetersPerDegreeLat, Lon: 16.3700 + 20/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180))},
		{Lat: 48.2000 + 20/geo.MetersPerDegreeLat, Lon: 16.3700},
	}
	zone := geofence.CircleZone(geo.GeoPoint{
		Lat: 48.2000 + 10/geo.MetersPerDegreeLat,
		Lon: 16.3700 + 10/(geo.MetersPerDegreeLat*math.Cos(48.2*math.Pi/180)),
	}, 3)
	s, err := geofence.BuildShape(boundary, []geofence.Zone{zone}, 0.5)
	if err != nil {
		t.Fatalf("BuildShape: %v", err)
	}
	return s
}

func TestMapRender(t *testing.T) {
	s := testShape(t)
	m := NewMapWidth(s, 60)

	p := plan.New("test")
	p.Add(geo.LocalPoint{X: 2, Y: 2}, 0.4, 0, false)
	p.Add(geo.LocalPoint{X: 18, Y: 2}, 0.4, 0, false)
	m.DrawPlan(p)
	m.DrawMower(geo.LocalPoint{X: 10, Y: 2})

	out := m.Render()
	for _, want := range []string{"#", "x", ".", "@", "legend"} {
		if want == "legend" {
			if !strings.Contains(out, "boundary") {
				t.Fatal("legend missing from render")
			}
			continue
		}
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q", want)
		}
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 5 {
		t.Fatalf("expected multi-line map, got %d lines", len(lines))
	}
}

func TestMapWidth_AspectRatio(t *testing.T) {
	s := testShape(t)
	m := NewMapWidth(s, 80)
	// 20x20 yard at 80 columns should be close to 40 rows.
	if m.rows < 30 || m.rows > 50 {
		t.Fatalf("unexpected row count %d", m.rows)
	}
}

type mockProgram struct {
	msgs []tea.Msg
}

func (m *mockProgram) Send(msg tea.Msg) { m.msgs = append(m.msgs, msg) }

func TestTUIWriter_SendsRunMsg(t *testing.T) {
	mp := &mockProgram{}
	w := &TUIWriter{program: mp}

	row := export.RunRow{RunID: "r1", X: 1, Y: 2, Battery: 50, Status: export.StatusMowing}
	if err := w.WriteRun(row); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	if len(mp.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mp.msgs))
	}
	rm, ok := mp.msgs[0].(runMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", mp.msgs[0])
	}
	if rm.RunID != "r1" {
		t.Fatalf("run_id = %s, want r1", rm.RunID)
	}
}

func TestRunModel_Update(t *testing.T) {
	s := testShape(t)
	m := newRunModel(s, plan.New("test"))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 50})
	m = updated.(runModel)
	updated, _ = m.Update(runMsg{export.RunRow{RunID: "r1", X: 5, Y: 5, Battery: 80, Status: export.StatusMowing}})
	m = updated.(runModel)

	if len(m.logs) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(m.logs))
	}
	view := m.View()
	if !strings.Contains(view, "mownav run") {
		t.Fatal("view missing title")
	}
	if !strings.Contains(view, "@") {
		t.Fatal("view missing mower marker")
	}
}
