package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mownav/internal/export"
)

func TestNewWritersPrintOnly(t *testing.T) {
	pw, rw, cleanup, err := newWriters(true, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := pw.(*export.StdoutWriter); !ok {
		t.Fatalf("expected *export.StdoutWriter, got %T", pw)
	}
	if _, ok := rw.(*export.StdoutWriter); !ok {
		t.Fatalf("expected *export.StdoutWriter, got %T", rw)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	pw, _, cleanup, err := newWriters(false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := pw.(*export.StdoutWriter); !ok {
		t.Fatalf("expected *export.StdoutWriter, got %T", pw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.jsonl")
	pw, rw, cleanup, err := newWriters(true, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := pw.(*export.MultiWriter); !ok {
		t.Fatalf("expected *export.MultiWriter, got %T", pw)
	}
	if err := pw.WritePlan(export.PlanRow{PlanID: "p1", Timestamp: time.Now()}); err != nil {
		t.Fatalf("write plan failed: %v", err)
	}
	if err := rw.WriteRun(export.RunRow{RunID: "r1", Timestamp: time.Now()}); err != nil {
		t.Fatalf("write run failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected plan file to be non-empty")
	}
	runInfo, err := os.Stat(path + ".run")
	if err != nil {
		t.Fatalf("stat run failed: %v", err)
	}
	if runInfo.Size() == 0 {
		t.Fatalf("expected run file to be non-empty")
	}
}
