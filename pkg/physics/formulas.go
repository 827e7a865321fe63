package physics

import "math"

// Physical constants used by the cannonball simulation.
const (
	// GravityAcceleration is g in m/s², acting along negative y.
	GravityAcceleration = 9.82
	// SphereDragCoefficient is the drag coefficient Cd of a smooth sphere.
	SphereDragCoefficient = 0.5
	// AirDensity is ρ of air at about 0 °C, in kg/m³.
	AirDensity = 1.3
)

// GravityForce returns the weight of a body of the given mass using
// GravityAcceleration.
func GravityForce(mass float64) Vector2D {
	return GravityForceWith(mass, GravityAcceleration)
}

// GravityForceWith returns the weight of a body for an arbitrary g.
func GravityForceWith(mass, g float64) Vector2D {
	return Vector2D{X: 0, Y: -g * mass}
}

// SphereCrossSectionalArea returns πr².
func SphereCrossSectionalArea(radius float64) float64 {
	return math.Pi * radius * radius
}

// DragForce returns the quadratic drag force
//
//	F = -0.5 · Cd · ρ · A · (vx², vy²)
//
// The velocity components are squared without reapplying their sign, so
// the resulting force always points toward negative x and negative y no
// matter which way the body travels. This matches the behaviour the
// simulation has always had; textbook drag would be -k·v·|v|.
func DragForce(dragCoefficient, fluidDensity, area float64, velocity Vector2D) Vector2D {
	k := -0.5 * dragCoefficient * fluidDensity * area
	return velocity.Pow(2).Scale(k)
}

// Acceleration sums forces and divides by mass. Mass must be positive;
// a zero mass yields infinities and the caller is expected to have
// rejected it earlier.
func Acceleration(forces []Vector2D, mass float64) Vector2D {
	var sum Vector2D
	for _, f := range forces {
		sum = sum.Add(f)
	}
	return sum.Div(mass)
}
