// Coverage pattern generation over geofence shapes
package coverage

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
	"mownav/internal/sweep"
)

// Pattern selects one of the supported coverage variants.
type Pattern string

const (
	PatternParallel     Pattern = "parallel"
	PatternCheckerboard Pattern = "checkerboard"
	PatternSpiral       Pattern = "spiral"
	PatternWaves        Pattern = "waves"
	PatternCrosshatch   Pattern = "crosshatch"
)

// ErrInvalidConfig marks coverage parameters that violate their documented
// ranges.
var ErrInvalidConfig = errors.New("invalid coverage config")

// Config holds pattern parameters. CuttingWidth must be positive and Overlap
// in [0,1). CrossAngleDeg of 0 means "use AngleDeg+90" for the two-pass
// patterns; WaveAmplitude and WaveLength of 0 pick defaults derived from the
// cutting width.
type Config struct {
	Pattern       Pattern
	CuttingWidth  float64 // meters
	Overlap       float64 // fraction of cutting width shared between passes
	AngleDeg      float64
	CrossAngleDeg float64
	WaveAmplitude float64 // meters
	WaveLength    float64 // meters
	Speed         float64 // m/s
}

func (c Config) validate() error {
	if c.CuttingWidth <= 0 {
		return fmt.Errorf("%w: cutting width %v", ErrInvalidConfig, c.CuttingWidth)
	}
	if c.Overlap < 0 || c.Overlap >= 1 {
		return fmt.Errorf("%w: overlap %v outside [0,1)", ErrInvalidConfig, c.Overlap)
	}
	switch c.Pattern {
	case PatternParallel, PatternCheckerboard, PatternSpiral, PatternWaves, PatternCrosshatch:
		return nil
	default:
		return fmt.Errorf("%w: unknown pattern %q", ErrInvalidConfig, c.Pattern)
	}
}

// spacing is the distance between adjacent passes.
func (c Config) spacing() float64 { return c.CuttingWidth * (1 - c.Overlap) }

func (c Config) crossAngle() float64 {
	if c.CrossAngleDeg != 0 {
		return c.CrossAngleDeg
	}
	return c.AngleDeg + 90
}

// Generate produces the coverage plan for shape under cfg. Identical inputs
// always yield identical waypoint sequences. A working area smaller than one
// cutting width yields an empty plan tagged WarningAreaTooSmall instead of an
// error.
func Generate(shape *geofence.Shape, cfg Config) (*plan.Plan, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := plan.New(string(cfg.Pattern))
	if coverableArea(shape, cfg) < cfg.CuttingWidth*cfg.CuttingWidth {
		p.Warning = plan.WarningAreaTooSmall
		return p, nil
	}
	switch cfg.Pattern {
	case PatternParallel:
		p.Waypoints = parallelWaypoints(newScanGeom(shape, cfg.AngleDeg), cfg, 0)
	case PatternCheckerboard:
		p.Waypoints = twoPassWaypoints(shape, cfg, true)
	case PatternCrosshatch:
		p.Waypoints = twoPassWaypoints(shape, cfg, false)
	case PatternSpiral:
		p.Waypoints = spiralWaypoints(shape, cfg)
	case PatternWaves:
		p.Waypoints = waveWaypoints(shape, cfg)
	}
	return p, nil
}

// coverableArea estimates the buffered working area by sampling scan-line
// intervals at the configured pass spacing.
func coverableArea(shape *geofence.Shape, cfg Config) float64 {
	g := newScanGeom(shape, cfg.AngleDeg)
	spacing := cfg.spacing()
	var area float64
	for _, y := range scanLines(g, spacing) {
		for _, iv := range sweep.Line(g.outer, g.zones, y) {
			area += iv.Len() * spacing
		}
	}
	return area
}

// scanGeom is a shape's buffered sweep geometry rotated so the requested
// coverage angle becomes horizontal scan lines. back() undoes the rotation
// for emitted waypoints.
type scanGeom struct {
	outer  []geo.LocalPoint
	zones  []geofence.LocalZone
	center geo.LocalPoint
	angle  float64 // radians, original coverage angle
}

func newScanGeom(shape *geofence.Shape, angleDeg float64) scanGeom {
	outer, zones := shape.SweepGeometry(true)
	g := scanGeom{center: shape.Centroid(), angle: angleDeg * math.Pi / 180}
	g.outer = rotateRing(outer, g.center, -g.angle)
	g.zones = make([]geofence.LocalZone, len(zones))
	for i, z := range zones {
		rz := geofence.LocalZone{Kind: z.Kind, Radius: z.Radius}
		if z.Kind == geofence.ZoneCircle {
			rz.Center = rotatePoint(z.Center, g.center, -g.angle)
		} else {
			rz.Polygon = rotateRing(z.Polygon, g.center, -g.angle)
		}
		g.zones[i] = rz
	}
	return g
}

// back rotates a scan-frame point into the shape's local frame.
func (g scanGeom) back(p geo.LocalPoint) geo.LocalPoint {
	return rotatePoint(p, g.center, g.angle)
}

func rotatePoint(p, c geo.LocalPoint, rad float64) geo.LocalPoint {
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return geo.LocalPoint{X: c.X + dx*cos - dy*sin, Y: c.Y + dx*sin + dy*cos}
}

func rotateRing(ring []geo.LocalPoint, c geo.LocalPoint, rad float64) []geo.LocalPoint {
	out := make([]geo.LocalPoint, len(ring))
	for i, p := range ring {
		out[i] = rotatePoint(p, c, rad)
	}
	return out
}

// scanLines returns evenly spaced scan heights across the rotated geometry,
// starting half a spacing in from the bottom.
func scanLines(g scanGeom, spacing float64) []float64 {
	if len(g.outer) < 3 {
		return nil
	}
	minY, maxY := g.outer[0].Y, g.outer[0].Y
	for _, p := range g.outer[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := minY + spacing/2
	if y0 > maxY {
		return nil
	}
	n := int((maxY-y0)/spacing) + 1
	if n == 1 {
		return []float64{y0}
	}
	return floats.Span(make([]float64, n), y0, y0+float64(n-1)*spacing)
}
