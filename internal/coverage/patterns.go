// Pattern-specific waypoint construction
package coverage

import (
	"math"

	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
	"mownav/internal/sweep"
)

// parallelWaypoints emits boustrophedon passes: scan lines bottom to top,
// direction alternating per line so the mower turns at the near end of the
// next pass.
func parallelWaypoints(g scanGeom, cfg Config, pass0 int) []plan.Waypoint {
	var wps []plan.Waypoint
	for i, y := range scanLines(g, cfg.spacing()) {
		ivs := sweep.Line(g.outer, g.zones, y)
		if len(ivs) == 0 {
			continue
		}
		reverse := i%2 == 1
		pass := pass0 + i
		if reverse {
			for k := len(ivs) - 1; k >= 0; k-- {
				wps = appendPass(wps, g, cfg, ivs[k].X1, ivs[k].X0, y, pass, true)
			}
		} else {
			for _, iv := range ivs {
				wps = appendPass(wps, g, cfg, iv.X0, iv.X1, y, pass, false)
			}
		}
	}
	return wps
}

func appendPass(wps []plan.Waypoint, g scanGeom, cfg Config, x0, x1, y float64, pass int, reverse bool) []plan.Waypoint {
	for _, x := range []float64{x0, x1} {
		wps = append(wps, plan.Waypoint{
			Pos:     g.back(geo.LocalPoint{X: x, Y: y}),
			Speed:   cfg.Speed,
			Pass:    pass,
			Reverse: reverse,
		})
	}
	return wps
}

// twoPassWaypoints runs the parallel pattern at the configured angle and
// again rotated by the cross angle. Checkerboard deduplicates coincident
// waypoints at the seam; crosshatch concatenates as-is.
func twoPassWaypoints(shape *geofence.Shape, cfg Config, dedupe bool) []plan.Waypoint {
	first := parallelWaypoints(newScanGeom(shape, cfg.AngleDeg), cfg, 0)
	pass0 := 0
	if len(first) > 0 {
		pass0 = first[len(first)-1].Pass + 1
	}
	second := parallelWaypoints(newScanGeom(shape, cfg.crossAngle()), cfg, pass0)
	merged := append(first, second...)
	if !dedupe {
		return merged
	}
	out := merged[:0:0]
	for _, wp := range merged {
		if len(out) > 0 && geo.Dist(out[len(out)-1].Pos, wp.Pos) < 1e-9 {
			continue
		}
		out = append(out, wp)
	}
	return out
}

// spiralWaypoints traces successive inward offsets of the buffered boundary,
// outermost ring first, until the remaining ring is smaller than one cutting
// width. Degenerate rings end the spiral; vertices landing inside a no-go
// zone are dropped.
func spiralWaypoints(shape *geofence.Shape, cfg Config) []plan.Waypoint {
	outer, _ := shape.SweepGeometry(true)
	ring := outer
	var wps []plan.Waypoint
	for depth := 0; ring != nil; depth++ {
		if geofence.RingArea(ring) < cfg.CuttingWidth*cfg.CuttingWidth {
			break
		}
		var ringStart *geo.LocalPoint
		for _, v := range ring {
			if !shape.Contains(v, true) {
				continue
			}
			if ringStart == nil {
				start := v
				ringStart = &start
			}
			wps = append(wps, plan.Waypoint{Pos: v, Speed: cfg.Speed, Pass: depth})
		}
		if ringStart != nil {
			// Close the ring before stepping inward.
			wps = append(wps, plan.Waypoint{Pos: *ringStart, Speed: cfg.Speed, Pass: depth})
		}
		ring = geofence.Inset(ring, cfg.spacing())
	}
	return wps
}

// waveWaypoints lays parallel scan lines and superimposes a sinusoidal
// perpendicular offset on the interior samples of each pass. Samples pushed
// outside the shape fall back onto the base scan line.
func waveWaypoints(shape *geofence.Shape, cfg Config) []plan.Waypoint {
	amp := cfg.WaveAmplitude
	if amp == 0 {
		amp = cfg.CuttingWidth
	}
	wavelength := cfg.WaveLength
	if wavelength == 0 {
		wavelength = 8 * cfg.CuttingWidth
	}
	step := math.Max(wavelength/8, 0.05)

	g := newScanGeom(shape, cfg.AngleDeg)
	var wps []plan.Waypoint
	add := func(x, y float64, offset bool, pass int, reverse bool) {
		pos := g.back(geo.LocalPoint{X: x, Y: y})
		if offset {
			cand := g.back(geo.LocalPoint{X: x, Y: y + amp*math.Sin(2*math.Pi*x/wavelength)})
			if shape.Contains(cand, true) {
				pos = cand
			}
		}
		wps = append(wps, plan.Waypoint{Pos: pos, Speed: cfg.Speed, Pass: pass, Reverse: reverse})
	}

	for i, y := range scanLines(g, cfg.spacing()) {
		ivs := sweep.Line(g.outer, g.zones, y)
		reverse := i%2 == 1
		for k := range ivs {
			iv := ivs[k]
			if reverse {
				iv = ivs[len(ivs)-1-k]
			}
			n := int(iv.Len() / step)
			add(pick(iv.X0, iv.X1, reverse), y, false, i, reverse)
			for j := 1; j < n; j++ {
				x := iv.X0 + float64(j)*step
				if reverse {
					x = iv.X1 - float64(j)*step
				}
				add(x, y, true, i, reverse)
			}
			add(pick(iv.X1, iv.X0, reverse), y, false, i, reverse)
		}
	}
	return wps
}

func pick(forward, backward float64, reverse bool) float64 {
	if reverse {
		return backward
	}
	return forward
}
