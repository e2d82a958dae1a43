// Equirectangular conversion between geographic and local planar coordinates
package geo

import "math"

// MetersPerDegreeLat is the approximate north-south length of one degree of
// latitude. Good to sub-meter accuracy at yard scale.
const MetersPerDegreeLat = 111320.0

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// LocalPoint is a planar coordinate in meters relative to a Frame origin.
// X grows east, Y grows north.
type LocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is a local metric plane anchored at a reference GeoPoint. The
// longitude scale factor is evaluated once at construction and reused for
// every point converted in this frame; a Frame must not be reused for a
// different origin.
type Frame struct {
	origin   GeoPoint
	lonScale float64 // meters per degree of longitude at the origin latitude
}

// NewFrame anchors a local frame at origin.
func NewFrame(origin GeoPoint) Frame {
	return Frame{
		origin:   origin,
		lonScale: MetersPerDegreeLat * math.Cos(origin.Lat*math.Pi/180),
	}
}

// Origin returns the anchor point of the frame.
func (f Frame) Origin() GeoPoint { return f.origin }

// ToLocal converts a geographic point into frame meters.
func (f Frame) ToLocal(p GeoPoint) LocalPoint {
	return LocalPoint{
		X: (p.Lon - f.origin.Lon) * f.lonScale,
		Y: (p.Lat - f.origin.Lat) * MetersPerDegreeLat,
	}
}

// ToGeo converts frame meters back to a geographic point.
func (f Frame) ToGeo(p LocalPoint) GeoPoint {
	return GeoPoint{
		Lat: f.origin.Lat + p.Y/MetersPerDegreeLat,
		Lon: f.origin.Lon + p.X/f.lonScale,
	}
}

// Dist returns the Euclidean distance in meters between two local points.
func Dist(a, b LocalPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
