// pkg/entity/cannon.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// Cannon is a stationary emitter of cannonballs
type Cannon struct {
	BaseEntity
	Profile CannonProfile
}

// NewCannon places a cannon with the given profile at position
func NewCannon(position physics.Vector2D, profile CannonProfile) *Cannon {
	return &Cannon{
		BaseEntity: BaseEntity{
			ID:       GenerateID(),
			Position: position,
		},
		Profile: profile,
	}
}

// Muzzle returns where fired balls start: the cannon position raised by
// the profile height.
func (c *Cannon) Muzzle() physics.Vector2D {
	return c.Position.Add(physics.V2(0, c.Profile.Height()))
}

// ElevationDegrees is the barrel angle above the horizontal, as shown to
// users.
func (c *Cannon) ElevationDegrees() float64 {
	return 90 - physics.RadiansToDegrees(c.Profile.Angle())
}

// BarrelDirection is the unit vector the barrel points along
func (c *Cannon) BarrelDirection() physics.Vector2D {
	return physics.FromAngle(physics.DegreesToRadians(c.ElevationDegrees()), 1)
}

// BarrelTip returns the end of the barrel as drawn, starting from the
// muzzle.
func (c *Cannon) BarrelTip() physics.Vector2D {
	return c.Muzzle().Add(c.BarrelDirection().Scale(c.Profile.BarrelLength()))
}

// Fire creates a cannonball at the muzzle with the current aim
func (c *Cannon) Fire(speed float64, air *AirResistance, opts ...CannonballOption) (*Cannonball, error) {
	if err := validation.ValidateLaunchSpeed(speed); err != nil {
		return nil, fmt.Errorf("fire: %w", err)
	}
	ball, err := NewCannonball(c.Muzzle(), c.Profile.Angle(), speed, air, opts...)
	if err != nil {
		return nil, fmt.Errorf("fire: %w", err)
	}
	return ball, nil
}

// Update does nothing; the cannon does not move.
func (c *Cannon) Update(deltaTime float64) {}

// Render draws the cannon
func (c *Cannon) Render(r Renderer) {
	r.RenderCannon(c)
}
