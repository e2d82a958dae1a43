package export

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterRuns(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []RunRow{{
		RunID:     "r1",
		PlanID:    "p1",
		Lat:       48.2,
		Lon:       16.37,
		X:         1.5,
		Y:         2.5,
		Battery:   87.5,
		Status:    StatusMowing,
		Timestamp: ts,
	}}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, runTable: "mow_runs"}

	if err := w.WriteRuns(rows); err != nil {
		t.Fatalf("WriteRuns: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	got := m.table.GetRows().Rows[0].Values[0].GetStringValue()
	if got != "r1" {
		t.Fatalf("run_id = %s, want r1", got)
	}
	if got := m.table.GetRows().Rows[0].Values[7].GetStringValue(); got != StatusMowing {
		t.Fatalf("status = %s, want %s", got, StatusMowing)
	}
}

func TestGreptimeWriterPlan(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, planTable: "mow_plans"}

	row := PlanRow{PlanID: "p1", Source: "coverage", Pattern: "spiral", Waypoints: 42, LengthM: 100, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WritePlan(row); err != nil {
		t.Fatalf("WritePlan: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	if got := m.table.GetRows().Rows[0].Values[2].GetStringValue(); got != "spiral" {
		t.Fatalf("pattern = %s, want spiral", got)
	}
}
