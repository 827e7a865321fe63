// pkg/engine/system.go
package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-cannon/pkg/entity"
)

// ballObserver is told about flight milestones as the system steps balls
type ballObserver interface {
	apexReached(ball *entity.Cannonball)
	landed(ball *entity.Cannonball)
	expired(ball *entity.Cannonball)
}

// ballEntity pairs an ecs entity with the cannonball it drives
type ballEntity struct {
	basic   ecs.BasicEntity
	ball    *entity.Cannonball
	rising  bool
	landed  bool
	expired bool
}

// CannonballSystem steps every cannonball in the world once per update.
// Balls keep their insertion order, which is also their draw order.
type CannonballSystem struct {
	entities      []*ballEntity
	maxFlightTime float64
	observer      ballObserver
}

// NewCannonballSystem creates a system that gives up on balls still
// airborne after maxFlightTime seconds. Zero disables the limit.
func NewCannonballSystem(maxFlightTime float64) *CannonballSystem {
	return &CannonballSystem{maxFlightTime: maxFlightTime}
}

// Add registers a ball under the given ecs entity
func (cs *CannonballSystem) Add(basic *ecs.BasicEntity, ball *entity.Cannonball) {
	cs.entities = append(cs.entities, &ballEntity{
		basic:  *basic,
		ball:   ball,
		rising: ball.GetVelocity().Y > 0,
	})
}

// Remove satisfies the ecs.System interface
func (cs *CannonballSystem) Remove(basic ecs.BasicEntity) {
	for i, e := range cs.entities {
		if e.basic.ID() == basic.ID() {
			cs.entities = append(cs.entities[:i], cs.entities[i+1:]...)
			return
		}
	}
}

// Update advances all airborne balls by dt seconds
func (cs *CannonballSystem) Update(dt float32) {
	step := float64(dt)
	for _, e := range cs.entities {
		if e.landed || e.expired {
			continue
		}

		e.ball.Update(step)

		if e.rising && e.ball.GetVelocity().Y <= 0 {
			e.rising = false
			if cs.observer != nil {
				cs.observer.apexReached(e.ball)
			}
		}

		if e.ball.IsDone() {
			e.landed = true
			if cs.observer != nil {
				cs.observer.landed(e.ball)
			}
			continue
		}

		if cs.maxFlightTime > 0 && e.ball.ElapsedTime() > cs.maxFlightTime {
			e.expired = true
			if cs.observer != nil {
				cs.observer.expired(e.ball)
			}
		}
	}
}

// Len returns the number of balls in the system
func (cs *CannonballSystem) Len() int {
	return len(cs.entities)
}

// Each calls fn for every ball in insertion order
func (cs *CannonballSystem) Each(fn func(basic ecs.BasicEntity, ball *entity.Cannonball)) {
	for _, e := range cs.entities {
		fn(e.basic, e.ball)
	}
}

// Expired returns the entities of balls that exceeded the flight limit
func (cs *CannonballSystem) Expired() []ecs.BasicEntity {
	var out []ecs.BasicEntity
	for _, e := range cs.entities {
		if e.expired {
			out = append(out, e.basic)
		}
	}
	return out
}
