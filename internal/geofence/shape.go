// Geofence shape construction and containment queries
package geofence

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"

	"mownav/internal/geo"
)

// minBoundaryArea rejects degenerate (near-zero area) boundaries.
const minBoundaryArea = 1e-6

// circleSegments controls how finely circles are approximated when a polygon
// representation is required (area accounting only, never containment).
const circleSegments = 32

// Shape is the immutable local-frame representation of a boundary, its no-go
// zones, and a safety buffer. Build it once per configuration change and share
// it across planning calls; all queries are pure.
type Shape struct {
	frame    geo.Frame
	outer    []geo.LocalPoint
	clip     geom.Polygon
	centroid geo.LocalPoint
	min, max geo.LocalPoint
	buffer   float64

	zones         []LocalZone
	expandedZones []LocalZone // zones grown by buffer
	insetOuter    []geo.LocalPoint
}

// BuildShape transforms boundary and zones into a local frame anchored at the
// boundary's first point and records the safety buffer.
func BuildShape(boundary []geo.GeoPoint, zones []Zone, buffer float64) (*Shape, error) {
	if len(boundary) < 3 {
		return nil, fmt.Errorf("%w: %d boundary points, need at least 3", ErrInvalidBoundary, len(boundary))
	}
	return BuildShapeAt(boundary[0], boundary, zones, buffer)
}

// BuildShapeAt is BuildShape with a caller-supplied frame origin.
func BuildShapeAt(origin geo.GeoPoint, boundary []geo.GeoPoint, zones []Zone, buffer float64) (*Shape, error) {
	if len(boundary) < 3 {
		return nil, fmt.Errorf("%w: %d boundary points, need at least 3", ErrInvalidBoundary, len(boundary))
	}
	if buffer < 0 {
		buffer = 0
	}
	frame := geo.NewFrame(origin)

	outer := make([]geo.LocalPoint, len(boundary))
	for i, p := range boundary {
		outer[i] = frame.ToLocal(p)
	}
	outer = dropDuplicates(outer)
	if len(outer) < 3 || math.Abs(signedArea(outer)) < minBoundaryArea {
		return nil, fmt.Errorf("%w: degenerate boundary area", ErrInvalidBoundary)
	}

	s := &Shape{
		frame:  frame,
		outer:  outer,
		clip:   ringPolygon(outer),
		buffer: buffer,
	}
	s.centroid = localPoint(s.clip.Centroid())
	b := s.clip.Bounds()
	s.min = geo.LocalPoint{X: b.Min.X, Y: b.Min.Y}
	s.max = geo.LocalPoint{X: b.Max.X, Y: b.Max.Y}
	s.insetOuter = Inset(outer, buffer)

	for i, z := range zones {
		lz, err := localZone(frame, z)
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
		s.zones = append(s.zones, lz)
		s.expandedZones = append(s.expandedZones, lz.Expanded(buffer))
	}
	return s, nil
}

func localZone(frame geo.Frame, z Zone) (LocalZone, error) {
	switch z.Kind {
	case ZoneCircle:
		if z.Radius <= 0 {
			return LocalZone{}, fmt.Errorf("%w: circle radius %v", ErrInvalidZone, z.Radius)
		}
		// Radius carries over unchanged: the frame is treated as isotropic
		// at yard scale.
		return LocalZone{Kind: ZoneCircle, Center: frame.ToLocal(z.Center), Radius: z.Radius}, nil
	default:
		if len(z.Polygon) < 3 {
			return LocalZone{}, fmt.Errorf("%w: %d polygon points, need at least 3", ErrInvalidZone, len(z.Polygon))
		}
		poly := make([]geo.LocalPoint, len(z.Polygon))
		for i, p := range z.Polygon {
			poly[i] = frame.ToLocal(p)
		}
		return LocalZone{Kind: ZonePolygon, Polygon: poly}, nil
	}
}

// WithObstacles returns a copy of the shape with transient obstacle zones
// appended, for a single routing call. The receiver is left untouched and the
// obstacles are not persisted anywhere else.
func (s *Shape) WithObstacles(obstacles []Zone) (*Shape, error) {
	out := *s
	out.zones = append([]LocalZone(nil), s.zones...)
	out.expandedZones = append([]LocalZone(nil), s.expandedZones...)
	for i, z := range obstacles {
		lz, err := localZone(s.frame, z)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		out.zones = append(out.zones, lz)
		out.expandedZones = append(out.expandedZones, lz.Expanded(s.buffer))
	}
	return &out, nil
}

// Frame returns the local frame every query operates in.
func (s *Shape) Frame() geo.Frame { return s.frame }

// Outer returns the boundary ring in local meters. Callers must not mutate it.
func (s *Shape) Outer() []geo.LocalPoint { return s.outer }

// Buffer returns the configured safety margin in meters.
func (s *Shape) Buffer() float64 { return s.buffer }

// Centroid returns the centroid of the outer ring.
func (s *Shape) Centroid() geo.LocalPoint { return s.centroid }

// Bounds returns the axis-aligned bounding box of the outer ring.
func (s *Shape) Bounds() (min, max geo.LocalPoint) { return s.min, s.max }

// Zones returns the no-go zones in the local frame.
func (s *Shape) Zones() []LocalZone { return s.zones }

// SweepGeometry returns the outer ring and zone set to run scan lines
// against. With buffered=true the outer ring is inset by the safety buffer
// and every zone is expanded by it; a nil outer ring means the buffer
// swallowed the whole working area.
func (s *Shape) SweepGeometry(buffered bool) (outer []geo.LocalPoint, zones []LocalZone) {
	if !buffered || s.buffer == 0 {
		return s.outer, s.zones
	}
	return s.insetOuter, s.expandedZones
}

// Contains reports whether p lies inside the outer boundary and outside every
// no-go zone. Points exactly on the boundary count as contained. With
// useBuffer the outer boundary is effectively inset by the buffer and every
// zone expanded by it, so the accepted region shrinks monotonically as the
// buffer grows.
func (s *Shape) Contains(p geo.LocalPoint, useBuffer bool) bool {
	if (geom.Point{X: p.X, Y: p.Y}).Within(s.clip) == geom.Outside {
		return false
	}
	buffer := 0.0
	if useBuffer {
		buffer = s.buffer
	}
	if buffer > 0 && distToRing(s.outer, p) < buffer {
		return false
	}
	for _, z := range s.zones {
		if zoneExcludes(z, p, buffer) {
			return false
		}
	}
	return true
}

// zoneExcludes reports whether p falls inside the zone grown by buffer.
// Points exactly on the zone edge are not excluded.
func zoneExcludes(z LocalZone, p geo.LocalPoint, buffer float64) bool {
	switch z.Kind {
	case ZoneCircle:
		return geo.Dist(p, z.Center) < z.Radius+buffer
	default:
		if (geom.Point{X: p.X, Y: p.Y}).Within(ringPolygon(z.Polygon)) == geom.Inside {
			return true
		}
		return buffer > 0 && distToRing(z.Polygon, p) < buffer
	}
}

// UsableArea returns the area of the working region in square meters: the
// outer boundary minus the union of no-go zones, computed with polygon
// set-difference. Circles are approximated as regular polygons here; the
// result feeds operator-facing stats, not containment decisions.
func (s *Shape) UsableArea() float64 {
	var region geom.Polygonal = s.clip
	for _, z := range s.zones {
		region = region.Difference(zonePolygon(z))
	}
	return math.Abs(region.Area())
}

func zonePolygon(z LocalZone) geom.Polygon {
	if z.Kind == ZonePolygon {
		return ringPolygon(z.Polygon)
	}
	ring := make([]geo.LocalPoint, circleSegments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / circleSegments
		ring[i] = geo.LocalPoint{X: z.Center.X + z.Radius*math.Cos(a), Y: z.Center.Y + z.Radius*math.Sin(a)}
	}
	return ringPolygon(ring)
}

func ringPolygon(ring []geo.LocalPoint) geom.Polygon {
	pts := make([]geom.Point, len(ring))
	for i, p := range ring {
		pts[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return geom.Polygon{pts}
}

func localPoint(p geom.Point) geo.LocalPoint {
	return geo.LocalPoint{X: p.X, Y: p.Y}
}

// distToRing returns the minimum distance from p to the ring's edges.
func distToRing(ring []geo.LocalPoint, p geo.LocalPoint) float64 {
	min := math.Inf(1)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if d := pointSegDist(p, a, b); d < min {
			min = d
		}
	}
	return min
}

func pointSegDist(p, a, b geo.LocalPoint) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := p.X-a.X, p.Y-a.Y
	c1 := vx*wx + vy*wy
	if c1 <= 0 {
		return geo.Dist(p, a)
	}
	c2 := vx*vx + vy*vy
	if c2 <= c1 {
		return geo.Dist(p, b)
	}
	t := c1 / c2
	return geo.Dist(p, geo.LocalPoint{X: a.X + t*vx, Y: a.Y + t*vy})
}
