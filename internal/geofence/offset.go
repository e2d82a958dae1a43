// Polygon inset/outset by edge translation and re-intersection
package geofence

import (
	"math"

	"mownav/internal/geo"
)

// Inset shrinks a simple polygon ring by d meters; a negative d grows it
// instead. Each edge is translated along its inward normal and adjacent edge
// lines are re-intersected to form the new vertices. Returns nil when the
// offset collapses the ring: fewer than 3 usable vertices, non-positive area,
// or an inset past the inradius that inverts the ring. Callers treat nil as
// "nothing left".
func Inset(ring []geo.LocalPoint, d float64) []geo.LocalPoint {
	if len(ring) < 3 {
		return nil
	}
	if d == 0 {
		out := make([]geo.LocalPoint, len(ring))
		copy(out, ring)
		return out
	}
	ring = ccw(ring)
	n := len(ring)

	// Offset line per edge: anchor point plus direction.
	type line struct {
		p geo.LocalPoint
		v geo.LocalPoint // direction, not normalized
	}
	lines := make([]line, 0, n)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		vx, vy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(vx, vy)
		if length < 1e-12 {
			continue
		}
		// Interior of a CCW ring lies to the left of each directed edge.
		nx, ny := -vy/length, vx/length
		lines = append(lines, line{
			p: geo.LocalPoint{X: a.X + nx*d, Y: a.Y + ny*d},
			v: geo.LocalPoint{X: vx, Y: vy},
		})
	}
	if len(lines) < 3 {
		return nil
	}

	out := make([]geo.LocalPoint, 0, len(lines))
	for i := range lines {
		prev := lines[(i+len(lines)-1)%len(lines)]
		cur := lines[i]
		p, ok := intersectLines(prev.p, prev.v, cur.p, cur.v)
		if !ok {
			// Parallel adjacent edges: the translated shared vertex works.
			p = cur.p
		}
		out = append(out, p)
	}
	if d > 0 {
		// When d exceeds the inradius the offset edges cross and re-intersect
		// into an inverted ring whose edges run against their source edges.
		for i := range lines {
			a, b := out[i], out[(i+1)%len(out)]
			if (b.X-a.X)*lines[i].v.X+(b.Y-a.Y)*lines[i].v.Y < 0 {
				return nil
			}
		}
	}
	out = dropDuplicates(out)
	if len(out) < 3 || signedArea(out) <= 1e-9 {
		return nil
	}
	if d > 0 && RingArea(out) >= RingArea(ring) {
		return nil
	}
	return out
}

// intersectLines solves p1+t*v1 == p2+s*v2. ok is false for (near) parallel
// lines.
func intersectLines(p1, v1, p2, v2 geo.LocalPoint) (geo.LocalPoint, bool) {
	den := v1.X*v2.Y - v1.Y*v2.X
	if math.Abs(den) < 1e-12 {
		return geo.LocalPoint{}, false
	}
	t := ((p2.X-p1.X)*v2.Y - (p2.Y-p1.Y)*v2.X) / den
	return geo.LocalPoint{X: p1.X + t*v1.X, Y: p1.Y + t*v1.Y}, true
}

// RingArea returns the unsigned area of a polygon ring.
func RingArea(ring []geo.LocalPoint) float64 {
	return math.Abs(signedArea(ring))
}

// signedArea is positive for counter-clockwise rings.
func signedArea(ring []geo.LocalPoint) float64 {
	var sum float64
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// ccw returns the ring in counter-clockwise order, copying if a reversal is
// needed.
func ccw(ring []geo.LocalPoint) []geo.LocalPoint {
	if signedArea(ring) >= 0 {
		return ring
	}
	out := make([]geo.LocalPoint, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

func dropDuplicates(ring []geo.LocalPoint) []geo.LocalPoint {
	out := ring[:0:0]
	for _, p := range ring {
		if len(out) > 0 && geo.Dist(out[len(out)-1], p) < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && geo.Dist(out[0], out[len(out)-1]) < 1e-9 {
		out = out[:len(out)-1]
	}
	return out
}
