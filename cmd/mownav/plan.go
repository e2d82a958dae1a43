package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mownav/internal/config"
	"mownav/internal/coverage"
	"mownav/internal/export"
	"mownav/internal/geofence"
	"mownav/internal/preview"
	"mownav/internal/route"
)

var (
	planPrintOnly  bool
	planConfigPath string
	planSchemaPath string
	planPattern    string
	planLogFile    string
	planPerimeter  bool
	planPreview    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a coverage plan for the configured yard",
	Long:  "plan builds the yard geofence, generates a coverage plan, and writes it to the configured sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(planConfigPath, planSchemaPath)
		if err != nil {
			return err
		}
		shape, err := loadShape(cfg)
		if err != nil {
			return err
		}

		cc := cfg.CoverageConfig()
		if planPattern != "" {
			cc.Pattern = coverage.Pattern(planPattern)
		}
		p, err := coverage.Generate(shape, cc)
		if err != nil {
			return err
		}

		writer, _, cleanup, err := newWriters(planPrintOnly, planLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		now := time.Now().UTC()
		summary, rows := export.BuildRows(p, shape.Frame(), string(cc.Pattern), now)
		if err := writer.WritePlan(summary); err != nil {
			return err
		}
		if err := export.WriteAllWaypoints(writer, rows); err != nil {
			return err
		}

		if planPerimeter {
			pp, err := route.BoundaryFollow(shape, cc.Speed)
			if err != nil {
				return err
			}
			psum, prows := export.BuildRows(pp, shape.Frame(), "perimeter", now)
			if err := writer.WritePlan(psum); err != nil {
				return err
			}
			if err := export.WriteAllWaypoints(writer, prows); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "usable area %.1f m2, plan length %.1f m, %d waypoints\n",
			shape.UsableArea(), p.Length(), len(p.Waypoints))

		if planPreview {
			m := preview.NewMap(shape)
			m.DrawPlan(p)
			fmt.Fprintln(cmd.OutOrStdout(), m.Render())
		}
		return nil
	},
}

// loadShape builds the geofence shape from the yard section.
func loadShape(cfg *config.MowConfig) (*geofence.Shape, error) {
	zones, err := cfg.Zones()
	if err != nil {
		return nil, err
	}
	return geofence.BuildShape(cfg.Boundary(), zones, cfg.Yard.BufferM)
}

func init() {
	planCmd.Flags().BoolVar(&planPrintOnly, "print-only", false, "Print plan to STDOUT instead of writing to DB")
	planCmd.Flags().StringVar(&planConfigPath, "config", "config/yard.yaml", "Path to yard configuration YAML")
	planCmd.Flags().StringVar(&planSchemaPath, "schema", "schemas/yard.cue", "Path to CUE schema file")
	planCmd.Flags().StringVar(&planPattern, "pattern", "", "Override the configured coverage pattern")
	planCmd.Flags().StringVar(&planLogFile, "log-file", "", "Path to export plan logs (JSONL)")
	planCmd.Flags().BoolVar(&planPerimeter, "perimeter", false, "Also emit a boundary-follow perimeter plan")
	planCmd.Flags().BoolVar(&planPreview, "preview", false, "Render an ASCII map of the plan")
}
