package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// EnvPrefix is prepended to every environment override, e.g.
// CANNON_LAUNCH_SPEED.
const EnvPrefix = "CANNON"

// floatOverrides maps viper keys to the config fields they override.
// The environment variable is the key upper-cased with dots replaced by
// underscores.
func floatOverrides(cfg *SimulationConfig) map[string]*float64 {
	return map[string]*float64{
		"physics.gravity":          &cfg.Physics.Gravity,
		"physics.air_density":      &cfg.Physics.AirDensity,
		"physics.drag_coefficient": &cfg.Physics.DragCoefficient,
		"projectile.mass":          &cfg.Projectile.Mass,
		"projectile.radius":        &cfg.Projectile.Radius,
		"cannon.angle":             &cfg.Cannon.AngleDegrees,
		"cannon.height":            &cfg.Cannon.Height,
		"cannon.x":                 &cfg.Cannon.X,
		"cannon.y":                 &cfg.Cannon.Y,
		"launch.speed":             &cfg.Launch.Speed,
		"view.scale":               &cfg.View.Scale,
		"view.zoom_factor":         &cfg.View.ZoomFactor,
		"time.step":                &cfg.Loop.TimeStep,
		"loop.max_delta_time":      &cfg.Loop.MaxDeltaTime,
		"loop.max_flight_time":     &cfg.Loop.MaxFlightTime,
	}
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// EnvVarName returns the environment variable that overrides key
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnvironmentOverrides replaces config values with any CANNON_*
// environment variables that are set. Unparseable values are reported
// and leave the config untouched.
func ApplyEnvironmentOverrides(cfg *SimulationConfig) error {
	v := newEnvViper()

	floats := floatOverrides(cfg)
	parsed := make(map[*float64]float64, len(floats))
	for key, field := range floats {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if !v.IsSet(key) {
			continue
		}
		raw := strings.TrimSpace(v.GetString(key))
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvVarName(key), raw, err)
		}
		parsed[field] = f
	}

	for _, key := range []string{"drag.mode", "launch.show_prediction", "name"} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	mode := cfg.Launch.DragMode
	if v.IsSet("drag.mode") {
		m, err := physics.ParseDragMode(v.GetString("drag.mode"))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVarName("drag.mode"), err)
		}
		mode = m
	}

	show := cfg.Launch.ShowPrediction
	if v.IsSet("launch.show_prediction") {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString("launch.show_prediction")))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVarName("launch.show_prediction"), err)
		}
		show = b
	}

	for field, value := range parsed {
		*field = value
	}
	cfg.Launch.DragMode = mode
	cfg.Launch.ShowPrediction = show
	if v.IsSet("name") {
		cfg.Name = v.GetString("name")
	}

	return nil
}
