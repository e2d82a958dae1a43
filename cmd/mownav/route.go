package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mownav/internal/config"
	"mownav/internal/export"
	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/route"
)

var (
	routePrintOnly  bool
	routeConfigPath string
	routeSchemaPath string
	routeX          float64
	routeY          float64
	routeObstacle   string
	routeLogFile    string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Plan a return-to-base route from a given position",
	Long:  "route plans a path from the given local position back to the configured home, avoiding no-go zones.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(routeConfigPath, routeSchemaPath)
		if err != nil {
			return err
		}
		shape, err := loadShape(cfg)
		if err != nil {
			return err
		}

		if routeObstacle != "" {
			ob, perr := parseObstacle(shape, routeObstacle)
			if perr != nil {
				return perr
			}
			shape, err = shape.WithObstacles([]geofence.Zone{ob})
			if err != nil {
				return err
			}
		}

		current := geo.LocalPoint{X: routeX, Y: routeY}
		home := shape.Frame().ToLocal(cfg.HomePoint())
		p, state, err := route.ReturnToBase(shape, current, home, cfg.PathParams())
		if err != nil {
			return fmt.Errorf("return to base failed (state %s): %w", state, err)
		}

		writer, _, cleanup, werr := newWriters(routePrintOnly, routeLogFile)
		if werr != nil {
			return werr
		}
		defer cleanup()

		summary, rows := export.BuildRows(p, shape.Frame(), string(state), time.Now().UTC())
		if err := writer.WritePlan(summary); err != nil {
			return err
		}
		return export.WriteAllWaypoints(writer, rows)
	},
}

// parseObstacle reads a transient circular obstacle as "x,y,radius" in local meters.
func parseObstacle(shape *geofence.Shape, arg string) (geofence.Zone, error) {
	var x, y, r float64
	if _, err := fmt.Sscanf(arg, "%f,%f,%f", &x, &y, &r); err != nil {
		return geofence.Zone{}, fmt.Errorf("invalid obstacle %q: %w", arg, err)
	}
	center := shape.Frame().ToGeo(geo.LocalPoint{X: x, Y: y})
	return geofence.CircleZone(center, r), nil
}

func init() {
	routeCmd.Flags().BoolVar(&routePrintOnly, "print-only", false, "Print route to STDOUT instead of writing to DB")
	routeCmd.Flags().StringVar(&routeConfigPath, "config", "config/yard.yaml", "Path to yard configuration YAML")
	routeCmd.Flags().StringVar(&routeSchemaPath, "schema", "schemas/yard.cue", "Path to CUE schema file")
	routeCmd.Flags().Float64Var(&routeX, "x", 0, "Current local X position in meters")
	routeCmd.Flags().Float64Var(&routeY, "y", 0, "Current local Y position in meters")
	routeCmd.Flags().StringVar(&routeObstacle, "obstacle", "", "Transient circular obstacle as x,y,radius in local meters")
	routeCmd.Flags().StringVar(&routeLogFile, "log-file", "", "Path to export route logs (JSONL)")
}
