// cmd/cannon/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/logging"
)

func main() {
	configPath := flag.String("config", "cannon.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	logPath := flag.String("log", "cannon.log", "Log file; the terminal itself is used for drawing")
	flag.Parse()

	if *createDefault {
		logger := logging.NewLogger()
		ctx := context.Background()
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.NewLoggerWithWriter(logFile, logging.LevelFromEnv())

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}

	sim, err := engine.NewSimulation(cfg, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}
	ctx, stop := signal.NotifyContext(sim.Context(context.Background()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	v, err := newViewer(screen, sim, logger)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Viewer started", "config_path", configPath)
	v.run(ctx)
	logger.Info(ctx, "Viewer stopped")
	return nil
}

// loadConfig reads the file at path, falling back to defaults when it does
// not exist, then applies CANNON_* environment overrides.
func loadConfig(path string, logger *logging.Logger) (*config.SimulationConfig, error) {
	ctx := context.Background()

	var cfg *config.SimulationConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, logging.WrapError(err, "load configuration %s", path)
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, logging.WrapError(err, "apply environment configuration")
	}
	return cfg, nil
}
