// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mownav/internal/coverage"
	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/pathfind"
)

// Point is a lat/lon pair as written in the yard file.
type Point struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Circle describes a circular no-go zone.
type Circle struct {
	Center  Point   `yaml:"center"`
	RadiusM float64 `yaml:"radius_m"`
}

// NoGoZone holds either a polygon or a circle, never both.
type NoGoZone struct {
	Name    string  `yaml:"name"`
	Polygon []Point `yaml:"polygon,omitempty"`
	Circle  *Circle `yaml:"circle,omitempty"`
}

// Yard defines the working area: boundary, no-go zones, buffer, and home.
type Yard struct {
	Name      string     `yaml:"name"`
	Boundary  []Point    `yaml:"boundary"`
	NoGoZones []NoGoZone `yaml:"no_go_zones"`
	BufferM   float64    `yaml:"buffer_m"`
	Home      Point      `yaml:"home"`
}

// Coverage selects the mowing pattern and its parameters.
type Coverage struct {
	Pattern        string  `yaml:"pattern"`
	CuttingWidthM  float64 `yaml:"cutting_width_m"`
	Overlap        float64 `yaml:"overlap"`
	AngleDeg       float64 `yaml:"angle_deg"`
	CrossAngleDeg  float64 `yaml:"cross_angle_deg"`
	WaveAmplitudeM float64 `yaml:"wave_amplitude_m"`
	WaveLengthM    float64 `yaml:"wave_length_m"`
	SpeedMps       float64 `yaml:"speed_mps"`
}

// Path tunes the grid pathfinder.
type Path struct {
	ResolutionM float64 `yaml:"resolution_m"`
	MaxCells    int     `yaml:"max_cells"`
}

// MowConfig is the root configuration for a mowing run.
type MowConfig struct {
	Yard     Yard     `yaml:"yard"`
	Coverage Coverage `yaml:"coverage"`
	Path     Path     `yaml:"path"`
}

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*MowConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg MowConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Boundary converts the yard boundary to geo points.
func (c *MowConfig) Boundary() []geo.GeoPoint {
	out := make([]geo.GeoPoint, len(c.Yard.Boundary))
	for i, p := range c.Yard.Boundary {
		out[i] = geo.GeoPoint{Lat: p.Lat, Lon: p.Lon}
	}
	return out
}

// Zones converts the configured no-go zones.
func (c *MowConfig) Zones() ([]geofence.Zone, error) {
	out := make([]geofence.Zone, 0, len(c.Yard.NoGoZones))
	for _, z := range c.Yard.NoGoZones {
		switch {
		case z.Circle != nil:
			out = append(out, geofence.CircleZone(
				geo.GeoPoint{Lat: z.Circle.Center.Lat, Lon: z.Circle.Center.Lon},
				z.Circle.RadiusM))
		case len(z.Polygon) > 0:
			poly := make([]geo.GeoPoint, len(z.Polygon))
			for i, p := range z.Polygon {
				poly[i] = geo.GeoPoint{Lat: p.Lat, Lon: p.Lon}
			}
			out = append(out, geofence.PolygonZone(poly))
		default:
			return nil, fmt.Errorf("%w: zone %q has neither polygon nor circle", geofence.ErrInvalidZone, z.Name)
		}
	}
	return out, nil
}

// CoverageConfig maps the coverage section onto the generator config.
func (c *MowConfig) CoverageConfig() coverage.Config {
	return coverage.Config{
		Pattern:       coverage.Pattern(c.Coverage.Pattern),
		CuttingWidth:  c.Coverage.CuttingWidthM,
		Overlap:       c.Coverage.Overlap,
		AngleDeg:      c.Coverage.AngleDeg,
		CrossAngleDeg: c.Coverage.CrossAngleDeg,
		WaveAmplitude: c.Coverage.WaveAmplitudeM,
		WaveLength:    c.Coverage.WaveLengthM,
		Speed:         c.Coverage.SpeedMps,
	}
}

// PathParams maps the path section onto pathfinder params.
func (c *MowConfig) PathParams() pathfind.Params {
	return pathfind.Params{
		Resolution: c.Path.ResolutionM,
		MaxCells:   c.Path.MaxCells,
		Speed:      c.Coverage.SpeedMps,
	}
}

// HomePoint returns the configured home position.
func (c *MowConfig) HomePoint() geo.GeoPoint {
	return geo.GeoPoint{Lat: c.Yard.Home.Lat, Lon: c.Yard.Home.Lon}
}
