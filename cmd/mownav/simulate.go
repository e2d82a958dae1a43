package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mownav/internal/config"
	"mownav/internal/coverage"
	"mownav/internal/logging"
	"mownav/internal/mowsim"
	"mownav/internal/preview"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simDrain      float64
	simLogFile    string
	simTUI        bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated mowing run",
	Long:  "simulate drives a virtual mower along the generated coverage plan, enforcing the geofence each tick.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		shape, err := loadShape(cfg)
		if err != nil {
			return err
		}
		p, err := coverage.Generate(shape, cfg.CoverageConfig())
		if err != nil {
			return err
		}

		_, writer, cleanup, err := newWriters(simPrintOnly, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		if simTUI {
			tw := preview.NewTUIWriter(shape, p)
			defer tw.Close()
			writer = tw
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		log := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		simulator := mowsim.New(shape, p, writer, tickInterval, simDrain)

		done := make(chan struct{})
		go func() {
			simulator.Run(ctx)
			close(done)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
			cancel()
			<-done
		case <-done:
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print run rows to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/yard.yaml", "Path to yard configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/yard.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Run tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().Float64Var(&simDrain, "drain", 0.05, "Battery percent drained per meter")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export run logs (JSONL)")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render the run in a terminal UI")
}
