// pkg/entity/cannonball.go
package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// Default cannonball properties.
const (
	DefaultMass   = 0.01 // kg
	DefaultRadius = 0.01 // m
)

// ErrInvalidConfiguration is returned when a cannonball is built with a
// mass or radius the integrator cannot work with.
var ErrInvalidConfiguration = errors.New("invalid cannonball configuration")

// Apex is the highest point reached so far and when it was reached.
type Apex struct {
	Position physics.Vector2D `json:"position"`
	Time     float64          `json:"time"`
}

// Cannonball is a sphere flying under gravity and optional drag. It is
// airborne until its height drops below zero, after which it is done and
// never moves again.
type Cannonball struct {
	BaseEntity
	mass       float64
	radius     float64
	air        *AirResistance
	launchMode physics.DragMode
	origin     physics.Vector2D
	elapsed    float64
	done       bool
	apex       Apex
	history    []physics.Vector2D
}

// CannonballOption customizes a cannonball at construction
type CannonballOption func(*Cannonball)

// WithMass overrides DefaultMass
func WithMass(mass float64) CannonballOption {
	return func(b *Cannonball) { b.mass = mass }
}

// WithRadius overrides DefaultRadius
func WithRadius(radius float64) CannonballOption {
	return func(b *Cannonball) { b.radius = radius }
}

// NewCannonball launches a ball from position. angle is measured from
// vertical, so the initial velocity is (sin(angle)·speed, cos(angle)·speed).
// air may be nil for a drag-free ball.
func NewCannonball(position physics.Vector2D, angle, speed float64, air *AirResistance, opts ...CannonballOption) (*Cannonball, error) {
	b := &Cannonball{
		BaseEntity: BaseEntity{
			ID:       GenerateID(),
			Position: position,
			Velocity: physics.V2(math.Sin(angle)*speed, math.Cos(angle)*speed),
		},
		mass:       DefaultMass,
		radius:     DefaultRadius,
		air:        air,
		launchMode: air.Mode(),
		origin:     position,
		apex:       Apex{Position: position},
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := validation.ValidatePositive("mass", b.mass); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := validation.ValidatePositive("radius", b.radius); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite launch state", ErrInvalidConfiguration)
	}

	return b, nil
}

// Update advances the ball by deltaTime seconds with one semi-implicit
// Euler step. There is no substepping: a large deltaTime, such as the
// first frame after a stall, can carry the ball well below ground in a
// single step.
func (b *Cannonball) Update(deltaTime float64) {
	if b.done {
		return
	}

	if b.Position.Y < 0 {
		b.history = append(b.history, b.Position)
		b.done = true
		return
	}

	b.history = append(b.history, b.Position)

	medium := b.air.Medium()
	accel := medium.Accelerate(b.air.Mode(), b.mass, b.radius, b.Velocity)

	state := physics.MotionState{Position: b.Position, Velocity: b.Velocity}
	physics.IntegrateSemiImplicit(&state, accel, deltaTime)
	b.Position = state.Position
	b.Velocity = state.Velocity
	b.elapsed += deltaTime

	if b.Position.Y > b.apex.Position.Y {
		b.apex = Apex{Position: b.Position, Time: b.elapsed}
	}

	if b.Position.Y < 0 {
		b.history = append(b.history, b.Position)
		b.done = true
	}
}

// Render draws the ball
func (b *Cannonball) Render(r Renderer) {
	r.RenderCannonball(b)
}

// Touchdown estimates where the ball crossed y = 0 by extending the line
// through the last two recorded positions. With fewer than two samples,
// or two samples at the same height, it returns the current position and
// false.
func (b *Cannonball) Touchdown() (physics.Vector2D, bool) {
	n := len(b.history)
	if n < 2 {
		return b.Position, false
	}
	p1, p2 := b.history[n-2], b.history[n-1]
	if p2.Y == p1.Y {
		return b.Position, false
	}
	x := p2.X - p2.Y*(p2.X-p1.X)/(p2.Y-p1.Y)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return b.Position, false
	}
	return physics.V2(x, 0), true
}

// Origin returns the launch position
func (b *Cannonball) Origin() physics.Vector2D {
	return b.origin
}

// IsDone reports whether the ball has hit the ground
func (b *Cannonball) IsDone() bool {
	return b.done
}

// Apex returns the highest point reached so far
func (b *Cannonball) Apex() Apex {
	return b.apex
}

// ElapsedTime returns the seconds spent airborne
func (b *Cannonball) ElapsedTime() float64 {
	return b.elapsed
}

// History returns a copy of the recorded positions, oldest first
func (b *Cannonball) History() []physics.Vector2D {
	out := make([]physics.Vector2D, len(b.history))
	copy(out, b.history)
	return out
}

// HistoryLen returns the number of recorded positions
func (b *Cannonball) HistoryLen() int {
	return len(b.history)
}

// Mass returns the ball's mass in kg
func (b *Cannonball) Mass() float64 {
	return b.mass
}

// Radius returns the ball's physical radius in m
func (b *Cannonball) Radius() float64 {
	return b.radius
}

// DragMode returns the drag mode currently acting on the ball
func (b *Cannonball) DragMode() physics.DragMode {
	return b.air.Mode()
}

// LaunchMode returns the drag mode in effect when the ball was fired. It
// does not follow later changes to the shared setting.
func (b *Cannonball) LaunchMode() physics.DragMode {
	return b.launchMode
}
