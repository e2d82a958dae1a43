package mowsim

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"mownav/internal/export"
)

// ReplayRun replays run rows from r to writer. A speed >0 accelerates playback.
// If speed <= 0, no artificial delay is inserted.
func ReplayRun(r io.Reader, writer export.RunWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row export.RunRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteRun(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayRunFile opens a file and replays its run rows.
func ReplayRunFile(path string, writer export.RunWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayRun(f, writer, speed)
}
