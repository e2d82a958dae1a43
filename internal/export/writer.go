package export

// PlanWriter is an interface to support different plan output writers.
type PlanWriter interface {
	WritePlan(row PlanRow) error
	WriteWaypoint(row WaypointRow) error
}

type batchPlanWriter interface {
	WriteWaypoints(rows []WaypointRow) error
}

// RunWriter receives per-tick rows from a simulated mowing run.
type RunWriter interface {
	WriteRun(row RunRow) error
}

type batchRunWriter interface {
	WriteRuns(rows []RunRow) error
}

// WriteAllWaypoints sends rows to w, using batch support when available.
func WriteAllWaypoints(w PlanWriter, rows []WaypointRow) error {
	if bw, ok := w.(batchPlanWriter); ok {
		return bw.WriteWaypoints(rows)
	}
	for _, r := range rows {
		if err := w.WriteWaypoint(r); err != nil {
			return err
		}
	}
	return nil
}
