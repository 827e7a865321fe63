package physics

// Medium describes the environment a projectile flies through
type Medium struct {
	Gravity         float64 `json:"gravity"`
	FluidDensity    float64 `json:"fluidDensity"`
	DragCoefficient float64 `json:"dragCoefficient"`
}

// DefaultMedium is Earth gravity and 0 °C air acting on a sphere
func DefaultMedium() Medium {
	return Medium{
		Gravity:         GravityAcceleration,
		FluidDensity:    AirDensity,
		DragCoefficient: SphereDragCoefficient,
	}
}

// Weight returns the gravity force on a body of the given mass
func (m Medium) Weight(mass float64) Vector2D {
	return GravityForceWith(mass, m.Gravity)
}

// Drag returns the drag force on a sphere of the given radius for mode.
func (m Medium) Drag(mode DragMode, radius float64, velocity Vector2D) Vector2D {
	switch mode {
	case DragRealistic:
		return DragForce(m.DragCoefficient, m.FluidDensity, SphereCrossSectionalArea(radius), velocity)
	case DragExaggerated:
		return DragForce(m.DragCoefficient, m.FluidDensity, SphereCrossSectionalArea(radius*ExaggeratedRadiusFactor), velocity)
	default:
		return Vector2D{}
	}
}

// Accelerate returns the acceleration of a sphere of the given mass and
// radius moving at velocity, under gravity plus drag.
func (m Medium) Accelerate(mode DragMode, mass, radius float64, velocity Vector2D) Vector2D {
	return Acceleration([]Vector2D{
		m.Weight(mass),
		m.Drag(mode, radius, velocity),
	}, mass)
}
