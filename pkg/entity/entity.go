// pkg/entity/entity.go
package entity

import (
	"sync/atomic"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is the base interface for all simulation objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	Update(deltaTime float64)
	Render(r Renderer)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// GetVelocity returns the entity's velocity
func (e *BaseEntity) GetVelocity() physics.Vector2D {
	return e.Velocity
}

var nextID atomic.Uint64

// GenerateID returns a process-wide unique, non-zero entity ID
func GenerateID() ID {
	return ID(nextID.Add(1))
}
