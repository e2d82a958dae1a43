// Row structs with greptime tags
package export

import (
	"os"
	"time"
)

// PlanRow summarizes a generated plan for GreptimeDB.
type PlanRow struct {
	PlanID    string    `json:"plan_id"`   // TAG
	Source    string    `json:"source"`    // TAG
	Pattern   string    `json:"pattern"`   // FIELD
	Waypoints int       `json:"waypoints"` // FIELD
	LengthM   float64   `json:"length_m"`  // FIELD
	Warning   string    `json:"warning"`   // FIELD
	Timestamp time.Time `json:"ts"`        // TIME INDEX
}

// WaypointRow is one waypoint of a plan, in both geo and local coordinates.
type WaypointRow struct {
	PlanID    string    `json:"plan_id"` // TAG
	Seq       int       `json:"seq"`     // FIELD
	Lat       float64   `json:"lat"`     // FIELD
	Lon       float64   `json:"lon"`     // FIELD
	X         float64   `json:"x"`       // FIELD
	Y         float64   `json:"y"`       // FIELD
	Speed     float64   `json:"speed"`   // FIELD
	Pass      int       `json:"pass"`    // FIELD
	Reverse   bool      `json:"reverse"` // FIELD
	Timestamp time.Time `json:"ts"`      // TIME INDEX
}

// RunRow is one simulated mower tick.
type RunRow struct {
	RunID     string    `json:"run_id"`  // TAG
	PlanID    string    `json:"plan_id"` // TAG
	Lat       float64   `json:"lat"`     // FIELD
	Lon       float64   `json:"lon"`     // FIELD
	X         float64   `json:"x"`       // FIELD
	Y         float64   `json:"y"`       // FIELD
	Battery   float64   `json:"battery"` // FIELD
	Status    string    `json:"status"`  // FIELD
	Timestamp time.Time `json:"ts"`      // TIME INDEX
}

// Mower run status constants.
const (
	StatusMowing     = "mowing"
	StatusDone       = "done"
	StatusViolation  = "violation"
	StatusLowBattery = "low_battery"
)

// RunTableName holds the table name used when writing run rows to
// GreptimeDB. It defaults to "mow_runs" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var RunTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "mow_runs"
}()

func (RunRow) TableName() string {
	return RunTableName
}
