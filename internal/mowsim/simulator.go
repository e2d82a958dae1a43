// Simulator driving a virtual mower along a plan with geofence enforcement
package mowsim

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mownav/internal/export"
	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/logging"
	"mownav/internal/plan"
)

const lowBatteryThreshold = 15.0

// Simulator advances a virtual mower along a plan, emitting one run row per
// tick and checking geofence containment at every position.
type Simulator struct {
	shape        *geofence.Shape
	plan         *plan.Plan
	writer       export.RunWriter
	runID        string
	tickInterval time.Duration
	drainPerM    float64

	mu       sync.Mutex
	pos      geo.LocalPoint
	target   int
	battery  float64
	traveled float64
	done     bool
}

// New creates a simulator positioned at the plan's first waypoint with a
// full battery. drainPerM is battery percent consumed per meter.
func New(shape *geofence.Shape, p *plan.Plan, writer export.RunWriter, tickInterval time.Duration, drainPerM float64) *Simulator {
	s := &Simulator{
		shape:        shape,
		plan:         p,
		writer:       writer,
		runID:        uuid.New().String(),
		tickInterval: tickInterval,
		drainPerM:    drainPerM,
		battery:      100,
		target:       1,
	}
	if len(p.Waypoints) > 0 {
		s.pos = p.Waypoints[0].Pos
	}
	if len(p.Waypoints) < 2 {
		s.done = true
	}
	return s
}

// RunID returns the identifier assigned to this run.
func (s *Simulator) RunID() string { return s.runID }

// Run starts the simulation loop and stops when the context is done, the
// plan is completed, or the battery is exhausted.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting mow run", "run_id", s.runID, "plan_id", s.plan.ID, "tick_interval", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			row := s.Step(s.tickInterval.Seconds())
			if err := s.writer.WriteRun(row); err != nil {
				log.Error("run write failed", "run_id", s.runID, "err", err)
			}
			if row.Status == export.StatusDone || s.battery <= 0 {
				log.Info("mow run finished", "run_id", s.runID, "status", row.Status, "traveled_m", s.traveled)
				return
			}
		case <-ctx.Done():
			log.Info("stopping mow run", "run_id", s.runID)
			return
		}
	}
}

// Step advances the mower by dt seconds and returns the resulting row.
func (s *Simulator) Step(dt float64) export.RunRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTraveled := s.traveled
	remaining := s.speed() * dt
	for !s.done && remaining > 0 {
		tgt := s.plan.Waypoints[s.target].Pos
		d := geo.Dist(s.pos, tgt)
		if d <= remaining {
			s.pos = tgt
			s.traveled += d
			remaining -= d
			s.target++
			if s.target >= len(s.plan.Waypoints) {
				s.done = true
			}
			continue
		}
		f := remaining / d
		s.pos = geo.LocalPoint{X: s.pos.X + f*(tgt.X-s.pos.X), Y: s.pos.Y + f*(tgt.Y-s.pos.Y)}
		s.traveled += remaining
		remaining = 0
	}
	// Drain tracks distance actually covered, so a tick that finishes the
	// plan mid-interval only charges for the ground moved.
	s.battery -= s.drainPerM * (s.traveled - startTraveled)
	if s.battery < 0 {
		s.battery = 0
	}
	return s.row()
}

// Finished reports whether the plan has been fully traversed.
func (s *Simulator) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Simulator) speed() float64 {
	idx := s.target
	if idx >= len(s.plan.Waypoints) {
		idx = len(s.plan.Waypoints) - 1
	}
	if idx < 0 {
		return 0
	}
	if v := s.plan.Waypoints[idx].Speed; v > 0 {
		return v
	}
	return 0.5
}

func (s *Simulator) row() export.RunRow {
	status := export.StatusMowing
	switch {
	case !s.shape.Contains(s.pos, false):
		status = export.StatusViolation
	case s.done:
		status = export.StatusDone
	case s.battery < lowBatteryThreshold:
		status = export.StatusLowBattery
	}
	g := s.shape.Frame().ToGeo(s.pos)
	return export.RunRow{
		RunID:     s.runID,
		PlanID:    s.plan.ID,
		Lat:       g.Lat,
		Lon:       g.Lon,
		X:         s.pos.X,
		Y:         s.pos.Y,
		Battery:   s.battery,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}
