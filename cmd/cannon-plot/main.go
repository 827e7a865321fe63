// cmd/cannon-plot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/plot/vg"

	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/entity"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/render"
	"github.com/opd-ai/go-cannon/pkg/render/plot"
)

func main() {
	configPath := flag.String("config", "cannon.json", "Path to configuration file")
	output := flag.String("out", "trajectory.png", "Output image; the extension picks the format")
	width := flag.Float64("width", 8, "Image width in inches")
	height := flag.Float64("height", 5, "Image height in inches")
	trace := flag.Bool("trace", false, "Log every simulation frame at debug level")
	flag.Parse()

	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), logging.NewRunID())

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}

	var tracer entity.Renderer
	if *trace {
		tracer = render.NewNullRendererWithLogger(logging.NewLoggerWithWriter(os.Stderr, slog.LevelDebug))
	}

	results, r, err := runAll(ctx, cfg, logger, tracer)
	if err != nil {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}
	for _, res := range results {
		logger.Info(ctx, "Flight summary",
			"drag_mode", res.Mode.String(),
			"range", res.Range,
			"apex", res.Apex,
			"flight_time", res.FlightTime,
			"steps", res.Steps,
		)
	}

	if err := r.Save(*output, vg.Length(*width)*vg.Inch, vg.Length(*height)*vg.Inch); err != nil {
		logger.Error(ctx, "Failed to write plot", err, "output", *output)
		os.Exit(1)
	}
	logger.Info(ctx, "Plot written", "output", *output)
}

func loadConfig(path string) (*config.SimulationConfig, error) {
	cfg := config.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// result summarizes one shot
type result struct {
	Mode       physics.DragMode
	Range      float64
	Apex       float64
	FlightTime float64
	Steps      uint64
}

// runAll fires one shot per drag mode with fixed time steps and draws
// every trail, plus the drag-free prediction once, into a single figure.
// A non-nil tracer is handed every intermediate frame.
func runAll(ctx context.Context, cfg *config.SimulationConfig, logger *logging.Logger, tracer entity.Renderer) ([]result, *plot.Renderer, error) {
	r := plot.NewRenderer(fmt.Sprintf("%s: %.1f m/s at %.0f°", cfg.Name, cfg.Launch.Speed, 90-cfg.Cannon.AngleDegrees))

	var results []result
	for i, mode := range []physics.DragMode{physics.DragOff, physics.DragRealistic, physics.DragExaggerated} {
		run := *cfg
		run.Launch.DragMode = mode
		run.Launch.ShowPrediction = i == 0

		res, err := runOne(ctx, &run, logger, r, tracer)
		if err != nil {
			return nil, nil, fmt.Errorf("drag %s: %w", mode, err)
		}
		results = append(results, res)
	}
	return results, r, nil
}

func runOne(ctx context.Context, cfg *config.SimulationConfig, logger *logging.Logger, r *plot.Renderer, tracer entity.Renderer) (result, error) {
	sim, err := engine.NewSimulation(cfg, engine.WithLogger(logger))
	if err != nil {
		return result{}, err
	}
	sim.Start()
	defer sim.Stop()

	if _, err := sim.Fire(ctx); err != nil {
		return result{}, err
	}

	maxSteps := uint64(cfg.Loop.MaxFlightTime/cfg.Loop.TimeStep) + 2
	for {
		sim.Tick(cfg.Loop.TimeStep)
		if tracer != nil {
			sim.Render(tracer)
		}
		st := sim.Snapshot()
		if st.Airborne() == 0 && st.Pending == 0 {
			break
		}
		if st.Tick > maxSteps {
			return result{}, fmt.Errorf("ball still airborne after %d steps", st.Tick)
		}
	}
	sim.Render(r)

	st := sim.Snapshot()
	if len(st.Balls) == 0 {
		return result{}, fmt.Errorf("ball exceeded the %.0f s flight limit", cfg.Loop.MaxFlightTime)
	}
	b := st.Balls[0]
	return result{
		Mode:       b.DragMode,
		Range:      b.Range,
		Apex:       b.Apex.Position.Y,
		FlightTime: b.Elapsed,
		Steps:      st.Tick,
	}, nil
}
