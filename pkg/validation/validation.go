// Package validation checks user supplied launch and simulation parameters
// before they reach the physics code.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits for launch and loop parameters.
const (
	MaxLaunchSpeed   = 10000.0 // m/s
	MaxAngleDegrees  = 180.0
	MaxHeight        = 10000.0 // m
	MaxTimeStep      = 1.0     // s
	MaxRunNameLength = 64
)

var validRunNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.()]+$`)

// ValidateFinite rejects NaN and infinities
func ValidateFinite(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", name, value)
	}
	return nil
}

// ValidatePositive requires a finite value strictly greater than zero
func ValidatePositive(name string, value float64) error {
	if err := ValidateFinite(name, value); err != nil {
		return err
	}
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, value)
	}
	return nil
}

// ValidateLaunchSpeed validates the muzzle speed of a shot
func ValidateLaunchSpeed(speed float64) error {
	if err := ValidateFinite("launch speed", speed); err != nil {
		return err
	}
	if speed < 0 {
		return fmt.Errorf("launch speed cannot be negative: %v", speed)
	}
	if speed > MaxLaunchSpeed {
		return fmt.Errorf("launch speed too large: %v (max %v)", speed, MaxLaunchSpeed)
	}
	return nil
}

// ValidateAngleDegrees validates a barrel angle given in degrees
func ValidateAngleDegrees(angle float64) error {
	if err := ValidateFinite("angle", angle); err != nil {
		return err
	}
	if math.Abs(angle) > MaxAngleDegrees {
		return fmt.Errorf("angle out of range: %v (must be within ±%v degrees)", angle, MaxAngleDegrees)
	}
	return nil
}

// ValidateHeight validates the muzzle height above ground. Negative
// heights are allowed since the predictor handles them explicitly.
func ValidateHeight(height float64) error {
	if err := ValidateFinite("height", height); err != nil {
		return err
	}
	if math.Abs(height) > MaxHeight {
		return fmt.Errorf("height out of range: %v (max %v)", height, MaxHeight)
	}
	return nil
}

// ValidateTimeStep validates the fixed step used by headless runs
func ValidateTimeStep(step float64) error {
	if err := ValidatePositive("time step", step); err != nil {
		return err
	}
	if step > MaxTimeStep {
		return fmt.Errorf("time step too large: %v s (max %v s)", step, MaxTimeStep)
	}
	return nil
}

// ValidateRunName validates and trims a run label used in logs and plot titles
func ValidateRunName(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("run name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("run name cannot be empty")
	}
	if len(trimmed) > MaxRunNameLength {
		return "", fmt.Errorf("run name too long: %d characters (max %d)", len(trimmed), MaxRunNameLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("run name contains control characters")
		}
	}

	if !validRunNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("run name contains invalid characters (only alphanumeric, spaces, hyphens, underscores, dots and parentheses allowed)")
	}

	return trimmed, nil
}
