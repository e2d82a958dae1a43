package export

// MultiWriter fans plan and run rows out to multiple writers.
type MultiWriter struct {
	planWriters []PlanWriter
	runWriters  []RunWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(pws []PlanWriter, rws []RunWriter) *MultiWriter {
	return &MultiWriter{planWriters: pws, runWriters: rws}
}

// WritePlan sends a plan row to all plan writers.
func (mw *MultiWriter) WritePlan(row PlanRow) error {
	for _, w := range mw.planWriters {
		if err := w.WritePlan(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteWaypoint sends a waypoint row to all plan writers.
func (mw *MultiWriter) WriteWaypoint(row WaypointRow) error {
	for _, w := range mw.planWriters {
		if err := w.WriteWaypoint(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteWaypoints sends waypoint rows to all plan writers, using batch if supported.
func (mw *MultiWriter) WriteWaypoints(rows []WaypointRow) error {
	for _, w := range mw.planWriters {
		if err := WriteAllWaypoints(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun sends a run row to all run writers.
func (mw *MultiWriter) WriteRun(row RunRow) error {
	for _, w := range mw.runWriters {
		if err := w.WriteRun(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteRuns sends run rows to all run writers, using batch if supported.
func (mw *MultiWriter) WriteRuns(rows []RunRow) error {
	for _, w := range mw.runWriters {
		if bw, ok := w.(batchRunWriter); ok {
			if err := bw.WriteRuns(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteRun(r); err != nil {
				return err
			}
		}
	}
	return nil
}
