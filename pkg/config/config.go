// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// ErrInvalidConfig is wrapped by every error Validate returns
var ErrInvalidConfig = errors.New("invalid simulation config")

// SimulationConfig contains configuration for a cannon simulation run
type SimulationConfig struct {
	Name       string           `json:"name"`
	Physics    PhysicsConfig    `json:"physics"`
	Projectile ProjectileConfig `json:"projectile"`
	Cannon     CannonConfig     `json:"cannon"`
	Launch     LaunchConfig     `json:"launch"`
	View       ViewConfig       `json:"view"`
	Loop       LoopConfig       `json:"loop"`
}

// PhysicsConfig describes the medium the ball flies through
type PhysicsConfig struct {
	Gravity         float64 `json:"gravity"`
	AirDensity      float64 `json:"airDensity"`
	DragCoefficient float64 `json:"dragCoefficient"`
}

// ProjectileConfig contains cannonball properties
type ProjectileConfig struct {
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

// CannonConfig places and aims the cannon. AngleDegrees is measured
// from vertical.
type CannonConfig struct {
	AngleDegrees float64 `json:"angleDegrees"`
	Height       float64 `json:"height"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

// LaunchConfig contains per-shot settings
type LaunchConfig struct {
	Speed          float64          `json:"speed"`
	DragMode       physics.DragMode `json:"dragMode"`
	ShowPrediction bool             `json:"showPrediction"`
}

// ViewConfig sets up the display transform
type ViewConfig struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Scale      float64 `json:"scale"`
	ZoomFactor float64 `json:"zoomFactor"`
}

// LoopConfig controls stepping. TimeStep is used by headless runs;
// MaxDeltaTime caps wall-clock deltas in interactive runs, 0 meaning no cap.
type LoopConfig struct {
	TimeStep      float64 `json:"timeStep"`
	MaxDeltaTime  float64 `json:"maxDeltaTime"`
	MaxFlightTime float64 `json:"maxFlightTime"`
}

// Medium converts the physics section into a physics.Medium
func (c PhysicsConfig) Medium() physics.Medium {
	return physics.Medium{
		Gravity:         c.Gravity,
		FluidDensity:    c.AirDensity,
		DragCoefficient: c.DragCoefficient,
	}
}

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the lab setup: the small experiment cannon at the
// origin, Earth gravity and 0 °C air.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Name: "cannon",
		Physics: PhysicsConfig{
			Gravity:         physics.GravityAcceleration,
			AirDensity:      physics.AirDensity,
			DragCoefficient: physics.SphereDragCoefficient,
		},
		Projectile: ProjectileConfig{
			Mass:   0.01,
			Radius: 0.01,
		},
		Cannon: CannonConfig{
			AngleDegrees: 45,
			Height:       0.1,
		},
		Launch: LaunchConfig{
			Speed:          5,
			DragMode:       physics.DragOff,
			ShowPrediction: true,
		},
		View: ViewConfig{
			Width:      800,
			Height:     600,
			Scale:      100,
			ZoomFactor: 1.1,
		},
		Loop: LoopConfig{
			TimeStep:      1.0 / 60,
			MaxDeltaTime:  0,
			MaxFlightTime: 120,
		},
	}
}

// Validate checks every section and reports all problems at once
func (c *SimulationConfig) Validate() error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
		}
	}

	if _, err := validation.ValidateRunName(c.Name); err != nil {
		check(err)
	}
	check(validation.ValidatePositive("physics.gravity", c.Physics.Gravity))
	check(nonNegative("physics.airDensity", c.Physics.AirDensity))
	check(nonNegative("physics.dragCoefficient", c.Physics.DragCoefficient))
	check(validation.ValidatePositive("projectile.mass", c.Projectile.Mass))
	check(validation.ValidatePositive("projectile.radius", c.Projectile.Radius))
	check(validation.ValidateAngleDegrees(c.Cannon.AngleDegrees))
	check(validation.ValidateHeight(c.Cannon.Height))
	check(validation.ValidateFinite("cannon.x", c.Cannon.X))
	check(validation.ValidateFinite("cannon.y", c.Cannon.Y))
	check(validation.ValidateLaunchSpeed(c.Launch.Speed))
	if !c.Launch.DragMode.Valid() {
		check(fmt.Errorf("launch.dragMode %d is not a drag mode", int(c.Launch.DragMode)))
	}
	check(validation.ValidatePositive("view.width", c.View.Width))
	check(validation.ValidatePositive("view.height", c.View.Height))
	check(validation.ValidatePositive("view.scale", c.View.Scale))
	if !(c.View.ZoomFactor > 1) {
		check(fmt.Errorf("view.zoomFactor must be greater than 1, got %v", c.View.ZoomFactor))
	}
	check(validation.ValidateTimeStep(c.Loop.TimeStep))
	check(nonNegative("loop.maxDeltaTime", c.Loop.MaxDeltaTime))
	check(validation.ValidatePositive("loop.maxFlightTime", c.Loop.MaxFlightTime))

	return errors.Join(errs...)
}

func nonNegative(name string, value float64) error {
	if err := validation.ValidateFinite(name, value); err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%s cannot be negative: %v", name, value)
	}
	return nil
}
