package export

import (
	"context"
	"log"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes plan and run rows to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client        greptimeClient
	planTable     string
	waypointTable string
	runTable      string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:        client,
		planTable:     "mow_plans",
		waypointTable: "mow_waypoints",
		runTable:      RunTableName,
	}, nil
}

// WritePlan inserts a plan summary row.
func (w *GreptimeDBWriter) WritePlan(row PlanRow) error {
	tbl, err := table.New(w.planTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("plan_id", types.STRING)
	tbl.AddTagColumn("source", types.STRING)
	tbl.AddFieldColumn("pattern", types.STRING)
	tbl.AddFieldColumn("waypoints", types.INT64)
	tbl.AddFieldColumn("length_m", types.FLOAT64)
	tbl.AddFieldColumn("warning", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(row.PlanID, row.Source, row.Pattern,
		int64(row.Waypoints), row.LengthM, row.Warning, row.Timestamp); err != nil {
		return err
	}
	return w.write(tbl)
}

// WriteWaypoint inserts a single waypoint row.
func (w *GreptimeDBWriter) WriteWaypoint(row WaypointRow) error {
	return w.WriteWaypoints([]WaypointRow{row})
}

// WriteWaypoints inserts multiple waypoint rows.
func (w *GreptimeDBWriter) WriteWaypoints(rows []WaypointRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.waypointTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("plan_id", types.STRING)
	tbl.AddFieldColumn("seq", types.INT64)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("speed", types.FLOAT64)
	tbl.AddFieldColumn("pass", types.INT64)
	tbl.AddFieldColumn("reverse", types.BOOLEAN)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.PlanID, int64(r.Seq), r.Lat, r.Lon,
			r.X, r.Y, r.Speed, int64(r.Pass), r.Reverse, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl)
}

// WriteRun inserts a single run row.
func (w *GreptimeDBWriter) WriteRun(row RunRow) error {
	return w.WriteRuns([]RunRow{row})
}

// WriteRuns inserts multiple run rows.
func (w *GreptimeDBWriter) WriteRuns(rows []RunRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.runTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("run_id", types.STRING)
	tbl.AddTagColumn("plan_id", types.STRING)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("battery", types.FLOAT64)
	tbl.AddFieldColumn("status", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.PlanID, r.Lat, r.Lon,
			r.X, r.Y, r.Battery, r.Status, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl)
}

func (w *GreptimeDBWriter) write(tbl *table.Table) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] write failed: %v", err)
		return err
	}
	return nil
}
