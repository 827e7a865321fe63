package physics

// MotionState tracks the kinematic state of a point mass
type MotionState struct {
	Position Vector2D
	Velocity Vector2D
}

// IntegrateSemiImplicit advances state by one semi-implicit Euler step:
// velocity is updated from the acceleration first, then position is
// advanced with the updated velocity. There is no substepping, so the
// caller owns the choice of deltaTime.
func IntegrateSemiImplicit(state *MotionState, acceleration Vector2D, deltaTime float64) {
	state.Velocity = state.Velocity.Add(acceleration.Scale(deltaTime))
	state.Position = state.Position.Add(state.Velocity.Scale(deltaTime))
}
