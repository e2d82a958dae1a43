package export

import (
	"encoding/json"
	"os"
)

// FileWriter writes plan and run data to JSONL files.
type FileWriter struct {
	planFile *os.File
	runFile  *os.File
	planEnc  *json.Encoder
	runEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. runPath may be empty to skip the run log.
func NewFileWriter(planPath, runPath string) (*FileWriter, error) {
	pf, err := os.Create(planPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{planFile: pf, planEnc: json.NewEncoder(pf)}
	if runPath != "" {
		rf, err := os.Create(runPath)
		if err != nil {
			pf.Close()
			return nil, err
		}
		fw.runFile = rf
		fw.runEnc = json.NewEncoder(rf)
	}
	return fw, nil
}

// WritePlan logs a plan summary row.
func (f *FileWriter) WritePlan(row PlanRow) error {
	return f.planEnc.Encode(row)
}

// WriteWaypoint logs a single waypoint row.
func (f *FileWriter) WriteWaypoint(row WaypointRow) error {
	return f.planEnc.Encode(row)
}

// WriteWaypoints logs multiple waypoint rows.
func (f *FileWriter) WriteWaypoints(rows []WaypointRow) error {
	for _, r := range rows {
		if err := f.WriteWaypoint(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRun logs a run row, if enabled.
func (f *FileWriter) WriteRun(row RunRow) error {
	if f.runEnc == nil {
		return nil
	}
	return f.runEnc.Encode(row)
}

// WriteRuns logs multiple run rows.
func (f *FileWriter) WriteRuns(rows []RunRow) error {
	for _, r := range rows {
		if err := f.WriteRun(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.planFile != nil {
		if e := f.planFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.runFile != nil {
		if e := f.runFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
