// No-go zone variants and validation errors
package geofence

import (
	"errors"

	"mownav/internal/geo"
)

// ZoneKind discriminates the no-go zone variants.
type ZoneKind int

const (
	ZonePolygon ZoneKind = iota
	ZoneCircle
)

// Zone is an excluded area the mower must not enter: either a polygon or a
// circle, selected by Kind.
type Zone struct {
	Kind    ZoneKind
	Polygon []geo.GeoPoint // ZonePolygon only
	Center  geo.GeoPoint   // ZoneCircle only
	Radius  float64        // ZoneCircle only, meters
}

// PolygonZone builds a polygon no-go zone from ordered boundary points.
func PolygonZone(points []geo.GeoPoint) Zone {
	return Zone{Kind: ZonePolygon, Polygon: points}
}

// CircleZone builds a circular no-go zone around center.
func CircleZone(center geo.GeoPoint, radiusM float64) Zone {
	return Zone{Kind: ZoneCircle, Center: center, Radius: radiusM}
}

var (
	// ErrInvalidBoundary marks boundaries with fewer than 3 points or
	// near-zero area. Bad configuration, not retryable.
	ErrInvalidBoundary = errors.New("invalid boundary")
	// ErrInvalidZone marks no-go zones with non-positive circle radius or
	// fewer than 3 polygon points.
	ErrInvalidZone = errors.New("invalid no-go zone")
)

// LocalZone is a zone transformed into a shape's local frame.
type LocalZone struct {
	Kind    ZoneKind
	Polygon []geo.LocalPoint
	Center  geo.LocalPoint
	Radius  float64
}

// Expanded returns the zone grown outward by d meters: circle radius
// increases by d, polygons are offset outward edge by edge. A non-positive d
// returns the zone unchanged.
func (z LocalZone) Expanded(d float64) LocalZone {
	if d <= 0 {
		return z
	}
	switch z.Kind {
	case ZoneCircle:
		return LocalZone{Kind: ZoneCircle, Center: z.Center, Radius: z.Radius + d}
	default:
		out := Inset(z.Polygon, -d)
		if out == nil {
			out = z.Polygon
		}
		return LocalZone{Kind: ZonePolygon, Polygon: out}
	}
}
