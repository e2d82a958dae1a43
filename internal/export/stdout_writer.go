// StdoutWriter prints human-friendly, colorized rows to STDOUT.
package export

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// StdoutWriter prints rows using ANSI colors.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// WritePlan prints a plan summary line.
func (w *StdoutWriter) WritePlan(row PlanRow) error {
	fmt.Fprintf(w.out, "%splan=%s%s %ssource=%s%s pattern=%s waypoints=%d length=%.1fm",
		colorBlue, row.PlanID, colorReset,
		colorCyan, row.Source, colorReset,
		row.Pattern, row.Waypoints, row.LengthM)
	if row.Warning != "" {
		fmt.Fprintf(w.out, " %swarning=%s%s", colorYellow, row.Warning, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteWaypoint prints a single waypoint line.
func (w *StdoutWriter) WriteWaypoint(row WaypointRow) error {
	fmt.Fprintf(w.out, "%s%4d%s lat=%.6f lon=%.6f x=%.2f y=%.2f pass=%d",
		colorGray, row.Seq, colorReset, row.Lat, row.Lon, row.X, row.Y, row.Pass)
	if row.Reverse {
		fmt.Fprintf(w.out, " %srev%s", colorMagenta, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteRun prints a run tick line, coloring the status.
func (w *StdoutWriter) WriteRun(row RunRow) error {
	statusColor := colorGreen
	switch row.Status {
	case StatusViolation:
		statusColor = colorRed
	case StatusLowBattery:
		statusColor = colorYellow
	}
	fmt.Fprintf(w.out, "%s[%s]%s run=%s x=%.2f y=%.2f batt=%.1f %s%s%s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		row.RunID, row.X, row.Y, row.Battery,
		statusColor, row.Status, colorReset)
	return nil
}
