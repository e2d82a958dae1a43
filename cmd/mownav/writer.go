package main

import (
	"os"

	"mownav/internal/export"
)

// newWriters sets up plan and run writers based on flags and env vars.
// It returns the writers and a cleanup function to close any resources.
func newWriters(printOnly bool, logFile string) (export.PlanWriter, export.RunWriter, func(), error) {
	cleanup := func() {}

	pw, rw, err := baseWriters(printOnly)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return pw, rw, cleanup, nil
	}

	fw, err := export.NewFileWriter(logFile, logFile+".run")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := export.NewMultiWriter([]export.PlanWriter{pw, fw}, []export.RunWriter{rw, fw})
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on printOnly flag and env vars.
func baseWriters(printOnly bool) (export.PlanWriter, export.RunWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		w := export.NewStdoutWriter()
		return w, w, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := export.NewGreptimeDBWriter(endpoint, database)
	if err != nil {
		return nil, nil, err
	}
	return w, w, nil
}

// newRunWriter creates a run writer without plan handling.
func newRunWriter(printOnly bool) (export.RunWriter, error) {
	_, rw, _, err := newWriters(printOnly, "")
	return rw, err
}
