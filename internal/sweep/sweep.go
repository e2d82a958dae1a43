// Sweep-line extraction of covered x-intervals from geofence geometry
package sweep

import (
	"math"
	"sort"

	"mownav/internal/geo"
	"mownav/internal/geofence"
)

// Interval is a covered x-range [X0, X1] on a horizontal scan line.
type Interval struct {
	X0, X1 float64
}

// Len returns the interval length.
func (iv Interval) Len() float64 { return iv.X1 - iv.X0 }

// Line computes the x-intervals at scan height y that lie inside the outer
// ring and outside every zone. Intervals come back sorted ascending by X0,
// non-overlapping, with touching neighbors coalesced. This is the shared
// primitive behind every coverage pattern and the coverable-area estimate.
func Line(outer []geo.LocalPoint, zones []geofence.LocalZone, y float64) []Interval {
	covered := pairCrossings(crossings(outer, y))
	if len(covered) == 0 {
		return nil
	}
	var excluded []Interval
	for _, z := range zones {
		excluded = append(excluded, zoneIntervals(z, y)...)
	}
	return coalesce(subtract(covered, mergeIntervals(excluded)))
}

// ShapeLine runs Line against a shape's geometry; buffered selects the
// safety-buffer-adjusted geometry.
func ShapeLine(s *geofence.Shape, y float64, buffered bool) []Interval {
	outer, zones := s.SweepGeometry(buffered)
	if len(outer) < 3 {
		return nil
	}
	return Line(outer, zones, y)
}

// crossings returns the x-coordinates where the ring's edges cross the scan
// line. Edges parallel to the scan line are skipped so shared vertices are
// not double-counted; the strict/non-strict pairing on Y guarantees an even
// number of crossings for a closed ring.
func crossings(ring []geo.LocalPoint, y float64) []float64 {
	var xs []float64
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if (a.Y > y) == (b.Y > y) {
			continue
		}
		xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
	}
	sort.Float64s(xs)
	return xs
}

// pairCrossings turns sorted crossings into inside intervals (even-odd rule).
func pairCrossings(xs []float64) []Interval {
	out := make([]Interval, 0, len(xs)/2)
	for i := 0; i+1 < len(xs); i += 2 {
		if xs[i+1] > xs[i] {
			out = append(out, Interval{X0: xs[i], X1: xs[i+1]})
		}
	}
	return out
}

// zoneIntervals returns the x-ranges blocked by a zone at scan height y.
func zoneIntervals(z geofence.LocalZone, y float64) []Interval {
	if z.Kind == geofence.ZoneCircle {
		dy := math.Abs(y - z.Center.Y)
		if dy >= z.Radius {
			return nil
		}
		dx := math.Sqrt(z.Radius*z.Radius - dy*dy)
		return []Interval{{X0: z.Center.X - dx, X1: z.Center.X + dx}}
	}
	return pairCrossings(crossings(z.Polygon, y))
}

// mergeIntervals unions overlapping or touching intervals.
func mergeIntervals(ivs []Interval) []Interval {
	if len(ivs) < 2 {
		return ivs
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].X0 < ivs[j].X0 })
	out := ivs[:1:1]
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.X0 <= last.X1 {
			if iv.X1 > last.X1 {
				last.X1 = iv.X1
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// subtract removes the merged excluded set from the covered set.
func subtract(covered, excluded []Interval) []Interval {
	if len(excluded) == 0 {
		return covered
	}
	var out []Interval
	for _, c := range covered {
		lo := c.X0
		for _, e := range excluded {
			if e.X1 <= lo {
				continue
			}
			if e.X0 >= c.X1 {
				break
			}
			if e.X0 > lo {
				out = append(out, Interval{X0: lo, X1: e.X0})
			}
			if e.X1 > lo {
				lo = e.X1
			}
		}
		if lo < c.X1 {
			out = append(out, Interval{X0: lo, X1: c.X1})
		}
	}
	return out
}

// coalesce merges intervals that touch end to start.
func coalesce(ivs []Interval) []Interval {
	if len(ivs) < 2 {
		return ivs
	}
	out := ivs[:1:1]
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.X0-last.X1 < 1e-9 {
			last.X1 = iv.X1
			continue
		}
		out = append(out, iv)
	}
	return out
}
